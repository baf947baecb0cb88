package humanproof

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/humanproof/humanproof/proof"
	"github.com/humanproof/humanproof/secrethash"
)

// Builder defines a public type used by humanproof APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store     ChallengeStore
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithChallengeStore describes the withchallengestore operation and its observable behavior.
//
// WithChallengeStore may return an error when input validation, dependency calls, or security checks fail.
// WithChallengeStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithChallengeStore(store ChallengeStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.IssueThrottle.Enabled && b.redis == nil {
		return nil, errors.New("issue throttle requires redis client")
	}

	engine := &Engine{
		config: cfg,
	}

	// -------- CHALLENGE STORE --------
	switch {
	case b.store != nil:
		engine.store = b.store
	case b.redis != nil:
		engine.store = NewRedisChallengeStore(b.redis, cfg.Challenge)
		engine.ownsStore = true
	default:
		engine.store = NewMemoryChallengeStore(cfg.Challenge)
		engine.ownsStore = true
	}

	// -------- SECRET HASHER --------
	hasher, err := secrethash.New(secrethash.Config{
		Memory:      cfg.SecretHash.Memory,
		Time:        cfg.SecretHash.Time,
		Parallelism: cfg.SecretHash.Parallelism,
		SaltLength:  cfg.SecretHash.SaltLength,
		KeyLength:   cfg.SecretHash.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.hasher = hasher

	// -------- PROOF MANAGER --------
	if cfg.Proof.Enabled {
		pm, err := proof.NewManager(proof.Config{
			TTL:           cfg.Proof.TTL,
			SigningMethod: proof.SigningMethod(cfg.Proof.SigningMethod),
			PrivateKey:    cfg.Proof.PrivateKey,
			PublicKey:     cfg.Proof.PublicKey,
			Issuer:        cfg.Proof.Issuer,
		})
		if err != nil {
			return nil, err
		}
		engine.proofs = pm
	}

	engine.throttle = newIssueThrottle(b.redis, cfg.IssueThrottle)
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
