package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind buckets a failure for retry and transport-status decisions.
type Kind string

const (
	KindConnectivity  Kind = "connectivity"
	KindTimeout       Kind = "timeout"
	KindAuth          Kind = "auth"
	KindRateLimit     Kind = "rate_limit"
	KindGeneration    Kind = "generation"
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
)

// Stable machine codes surfaced to callers. Codes never change meaning;
// new conditions get new codes.
const (
	CodeOllamaConnection = "OLLAMA_CONNECTION_ERROR"
	CodeOllamaTimeout    = "OLLAMA_TIMEOUT"
	CodeOllamaGeneration = "OLLAMA_GENERATION_ERROR"
	CodeGroqConnection   = "GROQ_CONNECTION_ERROR"
	CodeGroqTimeout      = "GROQ_TIMEOUT"
	CodeGroqAuth         = "GROQ_AUTH_ERROR"
	CodeGroqRateLimit    = "GROQ_RATE_LIMIT"
	CodeGroqAPI          = "GROQ_API_ERROR"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "RESOURCE_NOT_FOUND"
	CodeConfiguration    = "CONFIGURATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// Fault is a classified failure carrying a stable code, a user-safe message
// and the transport status the HTTP layer should answer with.
type Fault struct {
	Kind       Kind
	Code       string
	Message    string
	Status     int
	RetryAfter int // seconds, set for rate limits only
	Err        error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Fault) Unwrap() error { return f.Err }

func statusFor(kind Kind) int {
	switch kind {
	case KindConnectivity:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code, message string) *Fault {
	return &Fault{Kind: kind, Code: code, Message: message, Status: statusFor(kind)}
}

func Wrap(kind Kind, code, message string, err error) *Fault {
	return &Fault{Kind: kind, Code: code, Message: message, Status: statusFor(kind), Err: err}
}

func Validation(format string, args ...any) *Fault {
	return New(KindValidation, CodeValidation, fmt.Sprintf(format, args...))
}

func NotFound(resource, id string) *Fault {
	return New(KindNotFound, CodeNotFound, fmt.Sprintf("%s with ID '%s' not found", resource, id))
}

func Configuration(message string, err error) *Fault {
	return Wrap(KindConfiguration, CodeConfiguration, message, err)
}

func Internal(err error) *Fault {
	return Wrap(KindInternal, CodeInternal, "An unexpected error occurred. Please try again later.", err)
}

// As unwraps err looking for a Fault anywhere in the chain.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if f, ok := As(err); ok {
		return f.Kind
	}
	return ""
}

// Retryable reports whether err is worth another attempt: only transport-level
// connectivity and timeout failures qualify. Auth, rate-limit, validation and
// configuration failures propagate on first occurrence.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindConnectivity, KindTimeout:
		return true
	}
	return false
}

func RetryAfterHint(err error) int {
	if f, ok := As(err); ok {
		return f.RetryAfter
	}
	return 0
}
