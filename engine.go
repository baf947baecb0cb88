package humanproof

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/humanproof/humanproof/internal"
	"github.com/humanproof/humanproof/proof"
	"github.com/humanproof/humanproof/secrethash"
)

// Engine defines a public type used by humanproof APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	store     ChallengeStore
	ownsStore bool
	hasher    *secrethash.Hasher
	proofs    *proof.Manager
	throttle  *issueThrottle
	audit     *auditDispatcher
	metrics   *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.ownsStore && e.store != nil {
		e.store.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// ValidateProof describes the validateproof operation and its observable behavior.
//
// ValidateProof may return an error when input validation, dependency calls, or security checks fail.
// ValidateProof does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ValidateProof(token string) (*proof.Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.proofs == nil {
		return nil, ErrProofDisabled
	}

	claims, err := e.proofs.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}
	return claims, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observeVerifyLatency(start time.Time) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(MetricVerifyLatency, time.Since(start))
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, score int, reason RejectReason, outcome Outcome, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Outcome:   outcome.String(),
		Reason:    string(reason),
		Score:     score,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	})
}

// tokenRef digests a challenge token into a short reference that is safe to
// log; raw tokens never reach audit sinks.
func tokenRef(token string) map[string]string {
	sum := internal.HashToken(token)
	return map[string]string{
		"token_ref": hex.EncodeToString(sum[:8]),
	}
}
