package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FallbackMessage is reported when no response was received.
const FallbackMessage = "Something went wrong!"

// Kind classifies a Failure.
type Kind string

const (
	// KindTransport means no response was received (network error, timeout).
	KindTransport Kind = "transport"
	// KindServer means the backend answered with an error status or success:false.
	KindServer Kind = "server"
	// KindMalformed means the backend answered 2xx with a body that failed schema checks.
	KindMalformed Kind = "malformed"
	// KindValidation means client-side validation blocked the request.
	KindValidation Kind = "validation"
	// KindLocal means the request could not be built, e.g. an attachment
	// could not be read from disk.
	KindLocal Kind = "local"
)

// Failure is the single normalised error value produced at the action boundary.
// Body holds the server's error body verbatim when one was received.
type Failure struct {
	Kind    Kind
	Status  int
	Message string
	Body    json.RawMessage
	Fields  map[string]string
	cause   error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s failure (%d): %s", f.Kind, f.Status, f.Message)
	}
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.cause }

// NewTransportFailure wraps an error raised before any response arrived.
func NewTransportFailure(cause error) *Failure {
	return &Failure{Kind: KindTransport, Message: FallbackMessage, cause: cause}
}

// NewLocalFailure wraps an error raised while building a request. The
// cause is shown as is since it names the file or field at fault.
func NewLocalFailure(cause error) *Failure {
	return &Failure{Kind: KindLocal, Message: cause.Error(), cause: cause}
}

// NewMalformedFailure reports a 2xx body that did not match the expected schema.
func NewMalformedFailure(body []byte, format string, args ...interface{}) *Failure {
	return &Failure{
		Kind:    KindMalformed,
		Message: fmt.Sprintf(format, args...),
		Body:    rawOrNil(body),
	}
}

// NewValidationFailure reports client-side field errors.
func NewValidationFailure(fields map[string]string) *Failure {
	return &Failure{
		Kind:    KindValidation,
		Message: "Please fill in all required fields",
		Fields:  fields,
	}
}

// NewServerFailure builds a failure from an error response.
// The message comes from a "message" or "error" field, a bare JSON string
// body, or the HTTP status text, in that order.
func NewServerFailure(status int, body []byte) *Failure {
	f := &Failure{Kind: KindServer, Status: status, Body: rawOrNil(body)}
	f.Message = serverMessage(body)
	if f.Message == "" {
		f.Message = http.StatusText(status)
	}
	if f.Message == "" {
		f.Message = FallbackMessage
	}
	return f
}

func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Error
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func rawOrNil(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}

// AsFailure normalises any error into a *Failure. Nil stays nil.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	// Anything else (including context cancellation) never produced a response.
	return NewTransportFailure(err)
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}
