package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	humanproof "github.com/humanproof/humanproof"
)

func main() {
	var (
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "operations per phase (behavioral + challenge)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := humanproof.DefaultConfig()
	// Cheap hash parameters keep the loadtest CPU-bound on the store, not argon2.
	cfg.SecretHash.Memory = 8 * 1024
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := humanproof.New().
		WithConfig(cfg).
		WithRedis(client).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	behavioralStats := runBehavioralPhase(ctx, engine, *ops, *concurrency)
	challengeStats := runChallengePhase(ctx, engine, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("behavioral", behavioralStats)
	printStats("challenge", challengeStats)
}

func runBehavioralPhase(ctx context.Context, engine *humanproof.Engine, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				req := humanproof.VerifyRequest{
					Trajectory:        humanTrajectory(r),
					InteractionTimeMS: 2000 + int64(r.Intn(1000)),
				}
				t0 := time.Now()
				result, err := engine.Verify(ctx, req)
				d := time.Since(t0)
				if err != nil || result.Outcome != humanproof.OutcomeAccepted {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runChallengePhase(ctx context.Context, engine *humanproof.Engine, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}

				t0 := time.Now()
				challenge, err := engine.IssueChallenge(ctx)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				result, err := engine.Verify(ctx, humanproof.VerifyRequest{
					ChallengeToken: challenge.Token,
					TextAnswer:     strings.ToLower(challenge.RenderedText),
					KeyEvents:      humanKeyEvents(r, len(challenge.RenderedText)),
				})
				d := time.Since(t0)
				if err != nil || result.Outcome != humanproof.OutcomeAccepted {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// humanTrajectory synthesizes a wobbly pointer path with irregular timing that
// scores well above the default accept threshold.
func humanTrajectory(r *rand.Rand) []humanproof.PointerSample {
	samples := make([]humanproof.PointerSample, 0, 48)
	var (
		x, y float64
		t    int64
	)
	for i := 0; i < 48; i++ {
		x += 8 + r.Float64()*12
		y += (r.Float64() - 0.5) * 30
		t += 15 + int64(r.Intn(40))
		samples = append(samples, humanproof.PointerSample{X: x, Y: y, T: t})
	}
	return samples
}

// humanKeyEvents synthesizes typing with per-key delays in the human range.
func humanKeyEvents(r *rand.Rand, keys int) []humanproof.KeyEvent {
	if keys < 6 {
		keys = 6
	}
	events := make([]humanproof.KeyEvent, 0, keys)
	var t int64
	for i := 0; i < keys; i++ {
		t += 90 + int64(r.Intn(120))
		events = append(events, humanproof.KeyEvent{Key: "a", T: t})
	}
	return events
}
