package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VariableList is the set of variable names a template declares as
// substitutable, stored as a JSON array column.
type VariableList []string

func (v VariableList) Value() (driver.Value, error) {
	if v == nil {
		return []byte("[]"), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal variable list: %w", err)
	}

	return b, nil
}

func (v *VariableList) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		if len(s) == 0 {
			*v = nil
			return nil
		}
		return json.Unmarshal(s, v)
	case string:
		if s == "" {
			*v = nil
			return nil
		}
		return json.Unmarshal([]byte(s), v)
	default:
		return fmt.Errorf("unsupported variable list source type %T", src)
	}
}

// Template is a stored WhatsApp message body. Placeholders use {name} syntax;
// only names listed in Variables are eligible for substitution.
type Template struct {
	ID        string       `db:"id"         json:"id"`
	Name      string       `db:"name"       json:"name"`
	Content   string       `db:"content"    json:"content"`
	Variables VariableList `db:"variables"  json:"variables"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}
