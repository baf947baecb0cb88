package internaldefs

import (
	humanproof "github.com/humanproof/humanproof"
)

// CounterDef defines a public type used by humanproof APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   humanproof.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by humanproof APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   humanproof.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the verification engine.
var CounterDefs = []CounterDef{
	{ID: humanproof.MetricBehavioralAccepted, Name: "humanproof_behavioral_accepted_total", Help: "Requests accepted on behavioral signals alone."},
	{ID: humanproof.MetricBehavioralChallenged, Name: "humanproof_behavioral_challenged_total", Help: "Requests whose behavioral signals fell through to a text challenge."},
	{ID: humanproof.MetricChallengeIssued, Name: "humanproof_challenge_issued_total", Help: "Issued text challenges."},
	{ID: humanproof.MetricTextVerifyAccepted, Name: "humanproof_text_verify_accepted_total", Help: "Accepted challenge responses."},
	{ID: humanproof.MetricTextVerifyMismatch, Name: "humanproof_text_verify_mismatch_total", Help: "Challenge responses rejected for a wrong answer or machine-like typing."},
	{ID: humanproof.MetricTokenInvalid, Name: "humanproof_token_invalid_total", Help: "Challenge responses presenting an unknown, expired, or already-used token."},
	{ID: humanproof.MetricKeystrokeRejected, Name: "humanproof_keystroke_rejected_total", Help: "Challenge responses whose typing rhythm failed the keystroke analyzer."},
	{ID: humanproof.MetricIssueRateLimited, Name: "humanproof_issue_rate_limited_total", Help: "Challenge issuance attempts denied by the issue throttle."},
	{ID: humanproof.MetricProofIssued, Name: "humanproof_proof_issued_total", Help: "Issued signed presence proofs."},
}

// HistogramDefs is an exported constant or variable used by the verification engine.
var HistogramDefs = []HistogramDef{
	{ID: humanproof.MetricVerifyLatency, Name: "humanproof_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the verification engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the verification engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
