// Package humanproof provides a human-presence verification engine for login
// flows: passive behavioral trust scoring over pointer trajectories and
// interaction timing, with a fallback text challenge verified together with
// keystroke-timing analysis.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// humanproof is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (VerifyRequest, VerificationResult, MetricsSnapshot, etc.).
// Token entropy helpers live under internal/ and are never exported. Secret
// hashing and proof-token signing live in the secrethash and proof
// sub-packages.
//
// # What this package must NOT do
//
//   - Render challenge text into images. The engine produces and consumes
//     plain rendered text only; obfuscation is a UI concern.
//   - Route HTTP, manage sessions or cookies, or authenticate callers. The
//     engine receives an already-authenticated request shape.
//   - Persist verification outcomes. Only outstanding challenge secrets are
//     held, and only until consumption or expiry.
//
// # Performance contract
//
// Verify is the hot path. Scoring and keystroke analysis are pure and
// allocation-light; the only deliberate cost is the argon2id hash on challenge
// issuance and answer verification. Store operations are sub-millisecond and
// in-memory by default; the redis-backed store is allowed one round-trip per
// call.
package humanproof
