package humanproof

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/humanproof/humanproof/internal"
)

// ChallengeStore holds outstanding challenge secrets keyed by an opaque
// single-use token. It is the only shared mutable state in the engine;
// implementations must be safe under concurrent Issue and Consume calls, and
// Consume must be an atomic fetch-and-remove: two concurrent calls presenting
// the same token must never both receive the stored hash.
type ChallengeStore interface {
	// Issue stores secretHash under a freshly generated opaque token and
	// schedules its removal after ttl. The token carries at least 128 bits of
	// entropy.
	Issue(ctx context.Context, secretHash string, ttl time.Duration) (string, error)

	// Consume atomically looks up and removes the entry for token. It returns
	// the stored hash and true when the token was outstanding and unexpired,
	// or "", false otherwise. Consumption is unconditional: it happens whether
	// or not the caller's subsequent comparison succeeds, so a guessed answer
	// can never be replayed against the same token.
	Consume(ctx context.Context, token string) (string, bool, error)

	// Close releases background resources (reaper goroutines, connections).
	Close()
}

type memoryChallengeEntry struct {
	secretHash string
	expiresAt  time.Time
}

// MemoryChallengeStore is the default in-process [ChallengeStore]. Expiry is
// enforced lazily on Consume and, when a sweep interval is configured, by a
// background reaper; both run under the same mutex, so a consume and a sweep
// racing on one token cannot both win.
type MemoryChallengeStore struct {
	mu      sync.Mutex
	entries map[string]memoryChallengeEntry

	strategy TokenStrategyType
	now      func() time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMemoryChallengeStore describes the newmemorychallengestore operation and its observable behavior.
//
// NewMemoryChallengeStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryChallengeStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryChallengeStore(cfg ChallengeConfig) *MemoryChallengeStore {
	s := &MemoryChallengeStore{
		entries:  make(map[string]memoryChallengeEntry),
		strategy: cfg.TokenStrategy,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	if cfg.SweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(cfg.SweepInterval)
	}

	return s
}

// Issue describes the issue operation and its observable behavior.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryChallengeStore) Issue(_ context.Context, secretHash string, ttl time.Duration) (string, error) {
	token, err := newChallengeToken(s.strategy)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[token] = memoryChallengeEntry{
		secretHash: secretHash,
		expiresAt:  s.now().Add(ttl),
	}
	s.mu.Unlock()

	return token, nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryChallengeStore) Consume(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return "", false, nil
	}
	delete(s.entries, token)

	if s.now().After(entry.expiresAt) {
		return "", false, nil
	}

	return entry.secretHash, true, nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryChallengeStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *MemoryChallengeStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryChallengeStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}

func (s *MemoryChallengeStore) outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newChallengeToken(strategy TokenStrategyType) (string, error) {
	if strategy == TokenUUID {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}

	id, err := internal.NewChallengeTokenID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
