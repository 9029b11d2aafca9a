package retry

import (
	"errors"
	"testing"
	"time"

	"hrcraft/internal/fault"
)

func fastPolicy(p Policy, waits *[]time.Duration) Policy {
	p.Sleep = func(d time.Duration) { *waits = append(*waits, d) }
	return p
}

func TestExhaustionInvokesExactlyMaxAttempts(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(CloudPolicy(), &waits)

	calls := 0
	errConn := fault.New(fault.KindConnectivity, fault.CodeGroqConnection, "unreachable")
	err := Do(func() error {
		calls++
		return errConn
	}, p)

	if calls != 3 {
		t.Fatalf("calls=%d want 3", calls)
	}
	if !errors.Is(err, errConn) {
		t.Fatalf("last error not returned unchanged: %v", err)
	}
	// Cloud profile waits 1s then 2s; no wait after the final attempt.
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("waits=%v want %v", waits, want)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("wait[%d]=%v want %v", i, waits[i], want[i])
		}
	}
}

func TestLocalProfileWaits(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(LocalPolicy(), &waits)

	_ = Do(func() error {
		return fault.New(fault.KindTimeout, fault.CodeOllamaTimeout, "deadline")
	}, p)

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(waits) != len(want) || waits[0] != want[0] || waits[1] != want[1] {
		t.Fatalf("waits=%v want %v", waits, want)
	}
}

func TestTerminalFailureSingleInvocation(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(CloudPolicy(), &waits)

	calls := 0
	errAuth := fault.New(fault.KindAuth, fault.CodeGroqAuth, "invalid api key")
	err := Do(func() error {
		calls++
		return errAuth
	}, p)

	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
	if len(waits) != 0 {
		t.Fatalf("terminal failure slept: %v", waits)
	}
	if fault.KindOf(err) != fault.KindAuth {
		t.Fatalf("failure kind changed: %v", err)
	}
}

func TestSuccessAfterTransientFailure(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(CloudPolicy(), &waits)

	calls := 0
	err := Do(func() error {
		calls++
		if calls == 1 {
			return fault.New(fault.KindConnectivity, fault.CodeGroqConnection, "refused")
		}
		return nil
	}, p)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls=%d want 2", calls)
	}
	if len(waits) != 1 || waits[0] != 1*time.Second {
		t.Fatalf("waits=%v want [1s]", waits)
	}
}

func TestWaitClampedAtMax(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(Policy{
		MaxAttempts: 4,
		MinWait:     4 * time.Second,
		MaxWait:     6 * time.Second,
		Retryable:   fault.Retryable,
	}, &waits)

	_ = Do(func() error {
		return fault.New(fault.KindConnectivity, fault.CodeOllamaConnection, "down")
	}, p)

	want := []time.Duration{4 * time.Second, 6 * time.Second, 6 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("waits=%v want %v", waits, want)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("wait[%d]=%v want %v", i, waits[i], want[i])
		}
	}
}

func TestZeroValueRunsOnce(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(func() error {
		calls++
		return boom
	}, Policy{})
	if calls != 1 || !errors.Is(err, boom) {
		t.Fatalf("calls=%d err=%v", calls, err)
	}
}
