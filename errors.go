package humanproof

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the verification engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrChallengeStoreUnavailable is an exported constant or variable used by the verification engine.
	ErrChallengeStoreUnavailable = errors.New("challenge store backend unavailable")
	// ErrChallengeIssueFailed is an exported constant or variable used by the verification engine.
	ErrChallengeIssueFailed = errors.New("challenge issuance failed")
	// ErrIssueRateLimited is an exported constant or variable used by the verification engine.
	ErrIssueRateLimited = errors.New("challenge issuance rate limited")
	// ErrIssueThrottleUnavailable is an exported constant or variable used by the verification engine.
	ErrIssueThrottleUnavailable = errors.New("issue throttle backend unavailable")
	// ErrProofDisabled is an exported constant or variable used by the verification engine.
	ErrProofDisabled = errors.New("proof issuance disabled")
	// ErrProofInvalid is an exported constant or variable used by the verification engine.
	ErrProofInvalid = errors.New("invalid proof token")
)
