package humanproof

import "testing"

func keyEventsWithDelays(delays ...int64) []KeyEvent {
	events := make([]KeyEvent, 0, len(delays)+1)
	var t int64
	events = append(events, KeyEvent{Key: "a", T: t})
	for _, d := range delays {
		t += d
		events = append(events, KeyEvent{Key: "a", T: t})
	}
	return events
}

func TestKeystrokeInsufficientDataDefaultsToReject(t *testing.T) {
	cfg := DefaultConfig().Keystroke

	if keystrokeHumanLike(keyEventsWithDelays(100, 100, 100), cfg) {
		t.Fatal("expected rejection below the event minimum")
	}
	if keystrokeHumanLike(nil, cfg) {
		t.Fatal("expected rejection for empty sequence")
	}
}

func TestKeystrokeInsufficientDataConfigurablePass(t *testing.T) {
	cfg := DefaultConfig().Keystroke
	cfg.PassOnInsufficientData = true

	if !keystrokeHumanLike(keyEventsWithDelays(100, 100, 100), cfg) {
		t.Fatal("expected configured pass below the event minimum")
	}
}

func TestKeystrokeHumanCadencePasses(t *testing.T) {
	cfg := DefaultConfig().Keystroke

	if !keystrokeHumanLike(keyEventsWithDelays(120, 90, 200, 110, 150), cfg) {
		t.Fatal("expected human cadence to pass")
	}
}

func TestKeystrokeFastMeanRejected(t *testing.T) {
	cfg := DefaultConfig().Keystroke

	// Mean of 45ms sits under the 50ms bound even though no single delay does.
	if keystrokeHumanLike(keyEventsWithDelays(45, 45, 45, 45, 45), cfg) {
		t.Fatal("expected rejection for sub-human mean delay")
	}
}

func TestKeystrokeMajorityFastRejected(t *testing.T) {
	cfg := DefaultConfig().Keystroke

	// Mean is 91ms, comfortably human, but three of five delays are under the
	// 40ms fast bound.
	if keystrokeHumanLike(keyEventsWithDelays(35, 35, 35, 150, 200), cfg) {
		t.Fatal("expected rejection when most delays are machine-fast")
	}
}

func TestKeystrokeExactlyHalfFastPasses(t *testing.T) {
	cfg := DefaultConfig().Keystroke

	// Two of four delays fast: not a strict majority.
	if !keystrokeHumanLike(keyEventsWithDelays(35, 35, 200, 200), cfg) {
		t.Fatal("expected pass when exactly half the delays are fast")
	}
}

func TestKeystrokeExactMinimumEvaluated(t *testing.T) {
	cfg := DefaultConfig().Keystroke
	cfg.PassOnInsufficientData = true

	// Exactly MinEvents events must be analyzed, not waved through.
	if keystrokeHumanLike(keyEventsWithDelays(10, 10, 10, 10), cfg) {
		t.Fatal("expected analysis at exactly the event minimum")
	}
}
