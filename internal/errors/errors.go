// Package errors provides structured error types for tomcatup.
// These errors carry context that can be formatted for CLI diagnostics
// and matched by machine-readable code.
//
//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// Category represents the classification of an error.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryResolve    Category = "resolve"
	CategoryNetwork    Category = "network"
	CategorySystem     Category = "system"
	CategoryInstall    Category = "install"
	CategoryState      Category = "state"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Validation errors (E1xx)
	CodeMissingArgument Code = "E101"
	CodeInvalidArgument Code = "E102"
	CodeInvalidChoice   Code = "E103"

	// Resolution errors (E2xx)
	CodeNoVersionsFound Code = "E201"
	CodeNoMinorVersion  Code = "E202"
	CodeNoMatchingAsset Code = "E203"

	// Network errors (E3xx)
	CodeNetworkFailed Code = "E301"
	CodeHTTPError     Code = "E302"

	// System errors (E4xx)
	CodeCommandFailed   Code = "E401"
	CodePrivilegeDenied Code = "E402"
	CodeLocked          Code = "E403"

	// Install errors (E5xx)
	CodeInstallFailed    Code = "E501"
	CodeChecksumMismatch Code = "E502"
	CodeUninstallFailed  Code = "E503"
)

// Error is the base error type for tomcatup.
type Error struct {
	// Category classifies the error type.
	Category Category `json:"category"`

	// Code is a machine-readable error code.
	Code Code `json:"code,omitempty"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Details contains additional context information.
	Details map[string]any `json:"details,omitempty"`

	// Hint provides actionable advice for the user.
	Hint string `json:"hint,omitempty"`

	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error.
// It matches if the target is an *Error with the same Code (if both have codes).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != "" && t.Code != "" {
		return e.Code == t.Code
	}
	return e.Category == t.Category && e.Message == t.Message
}

// WithHint sets the hint and returns the error for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithDetail adds a detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given category and message.
func New(category Category, message string) *Error {
	return &Error{
		Category: category,
		Message:  message,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(category Category, message string, cause error) *Error {
	return &Error{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}
