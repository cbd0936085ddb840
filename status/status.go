package status

import (
	"fmt"
	"strconv"

	"github.com/wippyai/draco-go/errors"
)

// Code is the status code of the wrapped library.
type Code int32

const (
	CodeOK                 Code = 0
	CodeError              Code = -1 // generic error
	CodeIOError            Code = -2 // file or buffer I/O
	CodeInvalidParameter   Code = -3
	CodeUnsupportedVersion Code = -4 // known but unsupported bitstream version
	CodeUnknownVersion     Code = -5
	CodeUnsupportedFeature Code = -6
)

var codeNames = map[Code]string{
	CodeOK:                 "OK",
	CodeError:              "DRACO_ERROR",
	CodeIOError:            "IO_ERROR",
	CodeInvalidParameter:   "INVALID_PARAMETER",
	CodeUnsupportedVersion: "UNSUPPORTED_VERSION",
	CodeUnknownVersion:     "UNKNOWN_VERSION",
	CodeUnsupportedFeature: "UNSUPPORTED_FEATURE",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "CODE(" + strconv.Itoa(int(c)) + ")"
}

// Known reports whether c is one of the defined codes.
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// Status is the success or failure descriptor of an operation.
// The zero value is OK.
type Status struct {
	Message string
	Code    Code
}

// OK returns the success status.
func OK() Status {
	return Status{Code: CodeOK}
}

// New returns a status with the given code and message.
func New(code Code, msg string) Status {
	return Status{Code: code, Message: msg}
}

// Errorf returns a status with a formatted message.
func Errorf(code Code, format string, args ...any) Status {
	return Status{Code: code, Message: fmt.Sprintf(format, args...)}
}

// OK reports whether s is a success status.
func (s Status) OK() bool {
	return s.Code == CodeOK
}

func (s Status) String() string {
	if s.Message == "" {
		return s.Code.String()
	}
	return s.Code.String() + ": " + s.Message
}

// Err converts a failure status into an error. It returns nil for OK.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	return &errors.Error{
		Phase:  errors.PhaseDecode,
		Kind:   errors.KindFailedStatus,
		Detail: s.String(),
		Value:  s,
	}
}

// FromError recovers a status from err.
//
// nil maps to OK, errors produced by Status.Err map back to their status and
// any other error becomes CodeError carrying err's text.
func FromError(err error) Status {
	if err == nil {
		return OK()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		se, ok := e.(*errors.Error)
		if !ok || se.Kind != errors.KindFailedStatus {
			continue
		}
		if s, ok := se.Value.(Status); ok {
			return s
		}
	}
	return Status{Code: CodeError, Message: err.Error()}
}
