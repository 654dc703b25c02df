// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// Error is the type of error sent back by the API server when a
// request fails. The Code is a short machine-readable string drawn
// from the set below; the Message is for human consumption.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorCode returns the error's code, allowing it to satisfy
// the rpc.ErrorCoder interface.
func (e *Error) ErrorCode() string {
	return e.Code
}

// The Code attribute of an Error identifies the kind of failure
// independently of the message text. The values are fixed by the wire
// protocol and must not be changed.
const (
	CodeNotFound            = "not found"
	CodeUnauthorized        = "unauthorized access"
	CodeTryAgain            = "try again"
	CodeExcessiveContention = "excessive contention"
	CodeUpgradeInProgress   = "upgrade in progress"
	CodeStopped             = "watcher was stopped"
	CodeNotImplemented      = "not implemented"
	CodeNotProvisioned      = "not provisioned"
	CodeNotAssigned         = "not assigned"
	CodeAlreadyExists       = "already exists"
	CodeBadRequest          = "bad request"
)

// ErrorCoder represents an error that has an associated error code.
type ErrorCoder interface {
	ErrorCode() string
}

// ErrCode returns the error code associated with the given error, or
// the empty string if there is none.
func ErrCode(err error) string {
	err = errors.Cause(err)
	if err, _ := err.(ErrorCoder); err != nil {
		return err.ErrorCode()
	}
	return ""
}

// IsCodeNotFound returns whether err has the code CodeNotFound.
func IsCodeNotFound(err error) bool {
	return ErrCode(err) == CodeNotFound
}

// IsCodeUnauthorized returns whether err has the code CodeUnauthorized.
func IsCodeUnauthorized(err error) bool {
	return ErrCode(err) == CodeUnauthorized
}

// IsCodeStopped returns whether err has the code CodeStopped.
func IsCodeStopped(err error) bool {
	return ErrCode(err) == CodeStopped
}

// IsCodeNotImplemented returns whether err has the code
// CodeNotImplemented.
func IsCodeNotImplemented(err error) bool {
	return ErrCode(err) == CodeNotImplemented
}

// ErrorKind is the classification of an API error. It is the single
// decision point callers use to choose between retrying a request and
// failing fast.
type ErrorKind int

const (
	// ErrorKindGeneric covers every failure that has no more specific
	// classification. The original message and code are preserved on
	// the error itself for display.
	ErrorKindGeneric ErrorKind = iota

	// ErrorKindAuthentication indicates that the server rejected the
	// client's credentials.
	ErrorKindAuthentication

	// ErrorKindRetriable indicates a transient failure; the same call
	// may safely be retried.
	ErrorKindRetriable

	// ErrorKindWatcherStopped indicates that a watcher subscription is
	// no longer valid on the server and must not be polled again.
	ErrorKindWatcherStopped
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindAuthentication:
		return "authentication"
	case ErrorKindRetriable:
		return "retriable"
	case ErrorKindWatcherStopped:
		return "watcher stopped"
	}
	return "generic"
}

// The classification table maps error codes to kinds. It is
// deliberately data rather than logic: the server's code set is open,
// so new codes are added here as they are discovered, and any code not
// listed classifies as generic.
var (
	authCodes      = set.NewStrings(CodeUnauthorized)
	retriableCodes = set.NewStrings(
		CodeTryAgain,
		CodeExcessiveContention,
		CodeUpgradeInProgress,
	)
	stoppedCodes = set.NewStrings(CodeStopped)
)

// ClassifyCode returns the classification of the given error code.
// Unknown codes, including the empty string, classify as generic.
func ClassifyCode(code string) ErrorKind {
	switch {
	case authCodes.Contains(code):
		return ErrorKindAuthentication
	case retriableCodes.Contains(code):
		return ErrorKindRetriable
	case stoppedCodes.Contains(code):
		return ErrorKindWatcherStopped
	}
	return ErrorKindGeneric
}

// ClassifyError returns the classification of the given error based
// on its error code. Errors with no code classify as generic, so the
// classification is total over all errors.
func ClassifyError(err error) ErrorKind {
	return ClassifyCode(ErrCode(err))
}
