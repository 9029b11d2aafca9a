package providers

import (
	"context"
	"errors"
	"net"
	"strings"

	"hrcraft/internal/fault"
)

// ClassifyError maps an arbitrary backend error onto a fault kind. Faults
// carry their kind directly; anything else (including errors flattened to
// plain strings by workflow replay) is classified by message.
func ClassifyError(err error) fault.Kind {
	if err == nil {
		return ""
	}
	if f, ok := fault.As(err); ok {
		return f.Kind
	}
	if isTimeout(err) {
		return fault.KindTimeout
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "invalid model choice"), strings.Contains(e, "prompt must not be empty"):
		return fault.KindValidation
	case strings.Contains(e, "timed out"), strings.Contains(e, "timeout"), strings.Contains(e, "deadline exceeded"):
		return fault.KindTimeout
	case strings.Contains(e, "connect"), strings.Contains(e, "refused"), strings.Contains(e, "unreachable"), strings.Contains(e, "no such host"):
		return fault.KindConnectivity
	case strings.Contains(e, "api key"), strings.Contains(e, "unauthorized"), strings.Contains(e, "401"):
		return fault.KindAuth
	case strings.Contains(e, "rate limit"), strings.Contains(e, "429"), strings.Contains(e, "quota"):
		return fault.KindRateLimit
	default:
		return fault.KindGeneration
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
