package humanproof

// PointerSample defines a public type used by humanproof APIs.
//
// PointerSample instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PointerSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t"` // unix milliseconds
}

// KeyEvent defines a public type used by humanproof APIs.
//
// KeyEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type KeyEvent struct {
	Key string `json:"key"`
	T   int64  `json:"t"` // unix milliseconds
}

// VerifyRequest is the single shape-routed input of the engine. Every field is
// optional; which fields are present decides the flow (see [Engine.Verify]).
// Go zero values count as absent: a nil Trajectory, a zero InteractionTimeMS,
// and empty strings do not participate in routing.
type VerifyRequest struct {
	Trajectory        []PointerSample `json:"trajectory,omitempty"`
	InteractionTimeMS int64           `json:"interaction_time_ms,omitempty"`
	ChallengeToken    string          `json:"challenge_token,omitempty"`
	TextAnswer        string          `json:"text_answer,omitempty"`
	KeyEvents         []KeyEvent      `json:"key_events,omitempty"`
}

// Outcome defines a public type used by humanproof APIs.
//
// Outcome instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Outcome uint8

const (
	// OutcomeAccepted is an exported constant or variable used by the verification engine.
	OutcomeAccepted Outcome = iota
	// OutcomeChallengeIssued is an exported constant or variable used by the verification engine.
	OutcomeChallengeIssued
	// OutcomeRejected is an exported constant or variable used by the verification engine.
	OutcomeRejected
)

// String describes the string operation and its observable behavior.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeChallengeIssued:
		return "challenge_issued"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RejectReason defines a public type used by humanproof APIs.
//
// RejectReason instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RejectReason string

const (
	// ReasonNone is an exported constant or variable used by the verification engine.
	ReasonNone RejectReason = ""
	// ReasonInvalidOrExpiredToken is an exported constant or variable used by the verification engine.
	ReasonInvalidOrExpiredToken RejectReason = "invalid_or_expired_token"
	// ReasonChallengeMismatch is an exported constant or variable used by the verification engine.
	ReasonChallengeMismatch RejectReason = "challenge_mismatch"
)

// IssuedChallenge defines a public type used by humanproof APIs.
//
// IssuedChallenge instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IssuedChallenge struct {
	Token string `json:"token"`
	// RenderedText is the plain challenge secret. Callers are expected to
	// obfuscate it visually before presenting it; the engine never sees images.
	RenderedText string `json:"rendered_text"`
}

// VerificationResult is the synchronous verdict of one [Engine.Verify] call.
// It is never persisted by the engine.
type VerificationResult struct {
	Outcome   Outcome          `json:"outcome"`
	Accepted  bool             `json:"accepted"`
	Score     int              `json:"score,omitempty"`
	Reason    RejectReason     `json:"reason,omitempty"`
	Challenge *IssuedChallenge `json:"challenge,omitempty"`
	// Proof carries a signed human-presence proof token when proof issuance is
	// enabled and the outcome is OutcomeAccepted.
	Proof string `json:"proof,omitempty"`
}
