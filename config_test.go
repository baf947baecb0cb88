package humanproof

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := validateConfig(DefaultConfig()); err != nil {
		t.Fatalf("expected default config to validate: %v", err)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scoring.AcceptThreshold != 50 {
		t.Fatalf("expected accept threshold 50, got %d", cfg.Scoring.AcceptThreshold)
	}
	if cfg.Keystroke.MinEvents != 5 {
		t.Fatalf("expected min events 5, got %d", cfg.Keystroke.MinEvents)
	}
	if cfg.Keystroke.PassOnInsufficientData {
		t.Fatal("expected fail-safe insufficient-data default")
	}
	if cfg.Challenge.TTL != 120*time.Second {
		t.Fatalf("expected 120s challenge TTL, got %s", cfg.Challenge.TTL)
	}
	if cfg.Challenge.SecretLength != 6 {
		t.Fatalf("expected secret length 6, got %d", cfg.Challenge.SecretLength)
	}
	if cfg.Proof.Enabled {
		t.Fatal("expected proof issuance disabled by default")
	}
	if cfg.IssueThrottle.Enabled {
		t.Fatal("expected issue throttle disabled by default")
	}
	if cfg.Audit.Enabled {
		t.Fatal("expected audit disabled by default")
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("expected metrics enabled by default")
	}
}

func TestValidateConfigRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Scoring.AcceptThreshold = -1 }},
		{"min events too small", func(c *Config) { c.Keystroke.MinEvents = 1 }},
		{"negative mean delay", func(c *Config) { c.Keystroke.MinMeanDelayMS = -1 }},
		{"negative fast delay", func(c *Config) { c.Keystroke.FastDelayMS = -1 }},
		{"zero challenge TTL", func(c *Config) { c.Challenge.TTL = 0 }},
		{"secret too short", func(c *Config) { c.Challenge.SecretLength = 3 }},
		{"secret too long", func(c *Config) { c.Challenge.SecretLength = 33 }},
		{"unknown token strategy", func(c *Config) { c.Challenge.TokenStrategy = TokenStrategyType(42) }},
		{"negative sweep interval", func(c *Config) { c.Challenge.SweepInterval = -time.Second }},
		{"proof enabled zero TTL", func(c *Config) { c.Proof.Enabled = true; c.Proof.TTL = 0 }},
		{"throttle zero max", func(c *Config) { c.IssueThrottle.Enabled = true; c.IssueThrottle.MaxIssues = 0 }},
		{"throttle zero cooldown", func(c *Config) { c.IssueThrottle.Enabled = true; c.IssueThrottle.Cooldown = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCloneConfigCopiesKeyMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Proof.PrivateKey = []byte("private")
	cfg.Proof.PublicKey = []byte("public")

	clone := cloneConfig(cfg)
	clone.Proof.PrivateKey[0] = 'X'
	clone.Proof.PublicKey[0] = 'X'

	if cfg.Proof.PrivateKey[0] != 'p' || cfg.Proof.PublicKey[0] != 'p' {
		t.Fatal("expected clone to own its key material")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Challenge.TTL = 0

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected invalid config to fail the build")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	builder := New()
	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderThrottleRequiresRedis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IssueThrottle.Enabled = true

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected throttle without redis to fail the build")
	}
}

func TestBuilderProofKeyValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Proof.Enabled = true
	// hs256 with no key material.
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected proof without key to fail the build")
	}
}

func TestBuilderPrefersInjectedStore(t *testing.T) {
	store := NewMemoryChallengeStore(DefaultConfig().Challenge)
	defer store.Close()

	engine, err := New().WithChallengeStore(store).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.store != ChallengeStore(store) {
		t.Fatal("expected builder to use the injected store")
	}
	if engine.ownsStore {
		t.Fatal("expected engine not to own an injected store")
	}
}
