package humanproof

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return mr, rdb
}

// humanTrajectory scores 100 under the default rules: rich, wobbly, uneven
// timing.
func humanTrajectory() []PointerSample {
	samples := make([]PointerSample, 0, 48)
	var x float64
	var ts int64
	for i := 0; i < 48; i++ {
		y := 0.0
		if i%2 == 1 {
			y = 40
		}
		if i%3 == 0 {
			x += 25
		} else {
			x += 5
		}
		if i%2 == 0 {
			ts += 15
		} else {
			ts += 60
		}
		samples = append(samples, PointerSample{X: x, Y: y, T: ts})
	}
	return samples
}

// humanKeyEvents types n keys with delays in the human range.
func humanKeyEvents(n int) []KeyEvent {
	events := make([]KeyEvent, 0, n)
	var ts int64
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			ts += 110
		} else {
			ts += 180
		}
		events = append(events, KeyEvent{Key: "a", T: ts})
	}
	return events
}

// roboticKeyEvents types n keys with uniform machine-fast delays.
func roboticKeyEvents(n int) []KeyEvent {
	events := make([]KeyEvent, 0, n)
	var ts int64
	for i := 0; i < n; i++ {
		ts += 25
		events = append(events, KeyEvent{Key: "a", T: ts})
	}
	return events
}
