package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusPerKind(t *testing.T) {
	cases := map[Kind]int{
		KindConnectivity:  503,
		KindTimeout:       504,
		KindAuth:          401,
		KindRateLimit:     429,
		KindGeneration:    500,
		KindConfiguration: 500,
		KindValidation:    422,
		KindNotFound:      404,
		KindInternal:      500,
	}
	for kind, want := range cases {
		f := New(kind, "TEST", "test")
		if f.Status != want {
			t.Fatalf("kind %s: status=%d want %d", kind, f.Status, want)
		}
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(KindConnectivity, CodeOllamaConnection, "unreachable"), true},
		{New(KindTimeout, CodeOllamaTimeout, "deadline"), true},
		{New(KindAuth, CodeGroqAuth, "bad key"), false},
		{New(KindRateLimit, CodeGroqRateLimit, "quota"), false},
		{Validation("empty prompt"), false},
		{Configuration("no engine", nil), false},
		{errors.New("opaque"), false},
	}
	for _, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("Retryable(%v)=%v want %v", c.err, got, c.want)
		}
	}
}

func TestAsThroughWrapChain(t *testing.T) {
	inner := New(KindAuth, CodeGroqAuth, "invalid api key")
	wrapped := fmt.Errorf("generate via cloud: %w", inner)

	f, ok := As(wrapped)
	if !ok {
		t.Fatal("fault lost through wrap chain")
	}
	if f.Code != CodeGroqAuth || f.Status != 401 {
		t.Fatalf("got code=%s status=%d", f.Code, f.Status)
	}
	if KindOf(wrapped) != KindAuth {
		t.Fatalf("KindOf=%s want %s", KindOf(wrapped), KindAuth)
	}
}

func TestNotFoundMessage(t *testing.T) {
	f := NotFound("GeneratedDocument", "42")
	if f.Message != "GeneratedDocument with ID '42' not found" {
		t.Fatalf("message=%q", f.Message)
	}
	if f.Status != 404 || f.Code != CodeNotFound {
		t.Fatalf("status=%d code=%s", f.Status, f.Code)
	}
}

func TestRetryAfterHint(t *testing.T) {
	f := New(KindRateLimit, CodeGroqRateLimit, "rate limit exceeded")
	f.RetryAfter = 60
	wrapped := fmt.Errorf("cloud call: %w", f)
	if got := RetryAfterHint(wrapped); got != 60 {
		t.Fatalf("RetryAfterHint=%d want 60", got)
	}
	if got := RetryAfterHint(errors.New("other")); got != 0 {
		t.Fatalf("RetryAfterHint on plain error=%d want 0", got)
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	f := Wrap(KindConnectivity, CodeOllamaConnection, "cannot reach inference service", cause)
	if !errors.Is(f, cause) {
		t.Fatal("cause not reachable via errors.Is")
	}
}
