package tests

import (
	"testing"
	"time"

	"bookride/internal/service"
)

func TestInteractionGate_DebouncesBursts(t *testing.T) {
	t.Parallel()

	base := time.Now()
	gate := service.NewInteractionGate(500*time.Millisecond, 5*time.Second)

	if !gate.Signal(base) {
		t.Fatal("first signal should be accepted")
	}
	// A burst of pan/zoom events inside the debounce window coalesces.
	for _, offset := range []time.Duration{50, 200, 499} {
		if gate.Signal(base.Add(offset * time.Millisecond)) {
			t.Errorf("signal at +%dms accepted inside the debounce window", offset)
		}
	}
	if !gate.Signal(base.Add(600 * time.Millisecond)) {
		t.Error("signal after the debounce window should be accepted")
	}
}

func TestInteractionGate_SuppressionExpires(t *testing.T) {
	t.Parallel()

	base := time.Now()
	gate := service.NewInteractionGate(500*time.Millisecond, 5*time.Second)

	if gate.Suppressed(base) {
		t.Error("fresh gate should not suppress")
	}

	gate.Signal(base)
	if !gate.Suppressed(base.Add(4 * time.Second)) {
		t.Error("camera follow should stay suppressed within the resume delay")
	}
	if gate.Suppressed(base.Add(6 * time.Second)) {
		t.Error("suppression should expire after the resume delay")
	}
}
