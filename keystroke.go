package humanproof

// keystrokeHumanLike classifies a key-timing sequence. Only inter-event deltas
// matter, never key identity. Sequences shorter than cfg.MinEvents render the
// configured insufficient-data verdict; the fail-safe default rejects them.
// Pure function, no failure modes.
func keystrokeHumanLike(events []KeyEvent, cfg KeystrokeConfig) bool {
	if len(events) < cfg.MinEvents {
		return cfg.PassOnInsufficientData
	}

	delays := make([]int64, 0, len(events)-1)
	var sum int64
	fast := 0
	for i := 1; i < len(events); i++ {
		d := events[i].T - events[i-1].T
		delays = append(delays, d)
		sum += d
		if d < cfg.FastDelayMS {
			fast++
		}
	}

	mean := float64(sum) / float64(len(delays))
	if mean < cfg.MinMeanDelayMS {
		return false
	}
	// More than half the delays under the fast bound reads as synthetic input.
	if fast*2 > len(delays) {
		return false
	}

	return true
}
