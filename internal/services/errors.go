package services

import (
	"fmt"
	"strings"
)

// ValidationErrors carries every failing reason for a rejected request.
// Nothing has been written when one of these is returned.
type ValidationErrors struct {
	Reasons []string
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Reasons, "; "))
}

func NewValidationErrors(reasons ...string) *ValidationErrors {
	return &ValidationErrors{Reasons: reasons}
}

// IllegalTransitionError is a programming-fault class error: a caller
// attempted a status change the state machine does not admit. It is never
// silently coerced.
type IllegalTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition from %s to %s", e.Entity, e.From, e.To)
}

// DeclineError is a settlement failure from the gateway. It is recorded on
// the payment and surfaced, never retried automatically.
type DeclineError struct {
	Reason string
}

func (e *DeclineError) Error() string {
	return e.Reason
}

// SideEffectError marks a post-completion step that failed after the payment
// itself was durably completed. It carries enough context for the
// reconciliation sweep and is never surfaced as a payment failure.
type SideEffectError struct {
	PaymentID string
	Step      string
	Err       error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("side effect %s failed for payment %s: %v", e.Step, e.PaymentID, e.Err)
}

func (e *SideEffectError) Unwrap() error {
	return e.Err
}
