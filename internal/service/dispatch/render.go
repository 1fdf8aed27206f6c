package dispatch

import "strings"

// Render substitutes declared template variables into content. A placeholder
// {name} is replaced only when name appears in both allowed and vars; every
// other occurrence of { } text stays verbatim, including placeholders for
// variables the template never declared. There is no escaping syntax.
// Substituted values are not rescanned for placeholders. Render cannot fail:
// the worst input yields the content unchanged.
func Render(content string, allowed []string, vars map[string]string) string {
	pairs := make([]string, 0, len(allowed)*2)
	for _, name := range allowed {
		val, ok := vars[name]
		if !ok {
			continue
		}
		pairs = append(pairs, "{"+name+"}", val)
	}

	if len(pairs) == 0 {
		return content
	}

	return strings.NewReplacer(pairs...).Replace(content)
}
