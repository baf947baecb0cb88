package humanproof

import (
	"errors"
	"time"
)

// Config defines a public type used by humanproof APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Scoring       ScoringConfig
	Keystroke     KeystrokeConfig
	Challenge     ChallengeConfig
	SecretHash    SecretHashConfig
	Proof         ProofConfig
	IssueThrottle IssueThrottleConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

/*
====================================
SCORING CONFIG
====================================
*/

// ScoringConfig defines a public type used by humanproof APIs.
//
// ScoringConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ScoringConfig struct {
	// AcceptThreshold is the exclusive trust-score bound above which the
	// behavioral flow accepts without a text challenge. The default rule set
	// tops out at 100.
	AcceptThreshold int
}

/*
====================================
KEYSTROKE CONFIG
====================================
*/

// KeystrokeConfig defines a public type used by humanproof APIs.
//
// KeystrokeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type KeystrokeConfig struct {
	// MinEvents is the minimum number of key events required before the
	// analyzer renders a real verdict.
	MinEvents int
	// MinMeanDelayMS rejects sequences whose mean inter-key delay falls below
	// this bound.
	MinMeanDelayMS float64
	// FastDelayMS is the per-delay bound; sequences where more than half the
	// delays fall strictly under it are rejected.
	FastDelayMS int64
	// PassOnInsufficientData controls the verdict for sequences shorter than
	// MinEvents. The fail-safe default is false: too little data rejects.
	PassOnInsufficientData bool
}

/*
====================================
CHALLENGE CONFIG
====================================
*/

// TokenStrategyType defines a public type used by humanproof APIs.
//
// TokenStrategyType instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenStrategyType int

const (
	// TokenOpaque is an exported constant or variable used by the verification engine.
	TokenOpaque TokenStrategyType = iota
	// TokenUUID is an exported constant or variable used by the verification engine.
	TokenUUID
)

// ChallengeConfig defines a public type used by humanproof APIs.
//
// ChallengeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChallengeConfig struct {
	TTL           time.Duration
	SecretLength  int
	TokenStrategy TokenStrategyType
	// SweepInterval controls the in-memory store's background reaper. Zero
	// disables the sweep; expiry is then enforced lazily on consume, which
	// satisfies the same non-reachability guarantee.
	SweepInterval time.Duration
	// RedisPrefix namespaces challenge keys when the redis-backed store is in
	// use.
	RedisPrefix string
}

/*
====================================
SECRET HASH CONFIG
====================================
*/

// SecretHashConfig defines a public type used by humanproof APIs.
//
// SecretHashConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecretHashConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
PROOF CONFIG
====================================
*/

// ProofConfig defines a public type used by humanproof APIs.
//
// ProofConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ProofConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
ISSUE THROTTLE CONFIG
====================================
*/

// IssueThrottleConfig defines a public type used by humanproof APIs.
//
// IssueThrottleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IssueThrottleConfig struct {
	Enabled     bool
	MaxIssues   int
	Cooldown    time.Duration
	RedisPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by humanproof APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by humanproof APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULTS & VALIDATION
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Scoring: ScoringConfig{
			AcceptThreshold: 50,
		},
		Keystroke: KeystrokeConfig{
			MinEvents:              5,
			MinMeanDelayMS:         50,
			FastDelayMS:            40,
			PassOnInsufficientData: false,
		},
		Challenge: ChallengeConfig{
			TTL:           120 * time.Second,
			SecretLength:  6,
			TokenStrategy: TokenOpaque,
			SweepInterval: time.Minute,
			RedisPrefix:   "hpc",
		},
		SecretHash: SecretHashConfig{
			Memory:      16 * 1024,
			Time:        1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		Proof: ProofConfig{
			Enabled:       false,
			TTL:           5 * time.Minute,
			SigningMethod: "hs256",
			Issuer:        "humanproof",
		},
		IssueThrottle: IssueThrottleConfig{
			Enabled:     false,
			MaxIssues:   20,
			Cooldown:    time.Minute,
			RedisPrefix: "hpt",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func validateConfig(cfg Config) error {
	if cfg.Scoring.AcceptThreshold < 0 {
		return errors.New("scoring accept threshold must be >= 0")
	}
	if cfg.Keystroke.MinEvents < 2 {
		return errors.New("keystroke min events must be >= 2")
	}
	if cfg.Keystroke.MinMeanDelayMS < 0 {
		return errors.New("keystroke mean delay bound must be >= 0")
	}
	if cfg.Keystroke.FastDelayMS < 0 {
		return errors.New("keystroke fast delay bound must be >= 0")
	}
	if cfg.Challenge.TTL <= 0 {
		return errors.New("challenge TTL must be > 0")
	}
	if cfg.Challenge.SecretLength < 4 || cfg.Challenge.SecretLength > 32 {
		return errors.New("challenge secret length must be between 4 and 32")
	}
	switch cfg.Challenge.TokenStrategy {
	case TokenOpaque, TokenUUID:
	default:
		return errors.New("unknown challenge token strategy")
	}
	if cfg.Challenge.SweepInterval < 0 {
		return errors.New("challenge sweep interval must be >= 0")
	}
	if cfg.Proof.Enabled && cfg.Proof.TTL <= 0 {
		return errors.New("proof TTL must be > 0 when proof issuance is enabled")
	}
	if cfg.IssueThrottle.Enabled {
		if cfg.IssueThrottle.MaxIssues <= 0 {
			return errors.New("issue throttle max issues must be > 0")
		}
		if cfg.IssueThrottle.Cooldown <= 0 {
			return errors.New("issue throttle cooldown must be > 0")
		}
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must be >= 0")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Proof.PrivateKey) > 0 {
		out.Proof.PrivateKey = append([]byte(nil), cfg.Proof.PrivateKey...)
	}
	if len(cfg.Proof.PublicKey) > 0 {
		out.Proof.PublicKey = append([]byte(nil), cfg.Proof.PublicKey...)
	}
	return out
}
