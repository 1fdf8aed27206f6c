// Package errors defines the tagged failure kinds shared across the dispatch
// pipeline. Every kind surfaces as the same HTTP 500 at the boundary; callers
// branch on Kind, never on message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	KindTemplateNotFound Kind = "template_not_found"
	KindGateway          Kind = "gateway_error"
	KindPersistence      Kind = "persistence_error"
	KindMalformedRequest Kind = "malformed_request"
)

// DispatchError carries a failure kind plus the structured fields callers and
// logs rely on. Message is what the HTTP boundary returns verbatim; Cause is
// for diagnostics only and never leaks to clients.
type DispatchError struct {
	Kind            Kind
	Message         string
	TemplateID      string // set for template_not_found
	ProviderMessage string // set for gateway_error, provider text verbatim
	Op              string // set for persistence_error, the failed store op
	Cause           error
}

func (e *DispatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// NewTemplateNotFound covers both a missing row and an unreachable template
// store; the two are deliberately indistinguishable to callers. The store
// cause, when present, travels inside the error for logging.
func NewTemplateNotFound(templateID string, cause error) *DispatchError {
	return &DispatchError{
		Kind:       KindTemplateNotFound,
		Message:    "WhatsApp template not found",
		TemplateID: templateID,
		Cause:      cause,
	}
}

// NewGatewayError wraps a provider failure. providerMessage is surfaced to
// clients unmodified.
func NewGatewayError(providerMessage string, cause error) *DispatchError {
	return &DispatchError{
		Kind:            KindGateway,
		Message:         providerMessage,
		ProviderMessage: providerMessage,
		Cause:           cause,
	}
}

func NewPersistenceError(op string, cause error) *DispatchError {
	return &DispatchError{
		Kind:    KindPersistence,
		Message: "failed to record campaign response",
		Op:      op,
		Cause:   cause,
	}
}

func NewMalformedRequest(cause error) *DispatchError {
	return &DispatchError{
		Kind:    KindMalformedRequest,
		Message: "invalid request body",
		Cause:   cause,
	}
}

// KindOf extracts the failure kind from err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var de *DispatchError
	if stderrors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// AsDispatchError unwraps err to its *DispatchError, if it carries one.
func AsDispatchError(err error) (*DispatchError, bool) {
	var de *DispatchError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}
