package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's configuration-error taxonomy (spec §7).
var (
	ErrBadLinkSpec    = errors.New("malformed link spec")
	ErrUnknownApp     = errors.New("link references an app not in the configuration")
	ErrDuplicateSlot  = errors.New("duplicate slot binding")
	ErrOptionsConflict = errors.New("done and duration are mutually exclusive")
)

// LinkSpecError reports a link spec that failed to parse.
type LinkSpecError struct {
	Spec   string
	Reason string
}

func (e *LinkSpecError) Error() string {
	return fmt.Sprintf("invalid link spec %q: %s", e.Spec, e.Reason)
}

func (e *LinkSpecError) Unwrap() error {
	return ErrBadLinkSpec
}

// NewLinkSpecError creates a link-spec parse error.
func NewLinkSpecError(spec, reason string) *LinkSpecError {
	return &LinkSpecError{Spec: spec, Reason: reason}
}

// UnknownAppError reports a link endpoint with no matching app in the
// desired configuration.
type UnknownAppError struct {
	Link string
	App  string
}

func (e *UnknownAppError) Error() string {
	return fmt.Sprintf("link %q references unknown app %q", e.Link, e.App)
}

func (e *UnknownAppError) Unwrap() error {
	return ErrUnknownApp
}

// NewUnknownAppError creates an unknown-app error.
func NewUnknownAppError(link, app string) *UnknownAppError {
	return &UnknownAppError{Link: link, App: app}
}

// DuplicateSlotError reports two link specs in one configuration that both
// target the same slot on the same app.
type DuplicateSlotError struct {
	App  string
	Slot string
}

func (e *DuplicateSlotError) Error() string {
	return fmt.Sprintf("app %q has two link specs targeting slot %q", e.App, e.Slot)
}

func (e *DuplicateSlotError) Unwrap() error {
	return ErrDuplicateSlot
}

// NewDuplicateSlotError creates a duplicate-slot-binding error.
func NewDuplicateSlotError(app, slot string) *DuplicateSlotError {
	return &DuplicateSlotError{App: app, Slot: slot}
}

// OptionsError reports conflicting fields on engine.Options.
type OptionsError struct {
	Detail string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid options: %s", e.Detail)
}

func (e *OptionsError) Unwrap() error {
	return ErrOptionsConflict
}

// NewOptionsError creates an options-conflict error.
func NewOptionsError(detail string) *OptionsError {
	return &OptionsError{Detail: detail}
}
