package humanproof

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/humanproof/humanproof/internal"
	"github.com/humanproof/humanproof/proof"
)

type requestFlow int

const (
	flowBehavioral requestFlow = iota
	flowTextVerify
)

// classifyRequest routes a request by shape. Token plus answer wins: whenever
// both are present the request is a challenge response, regardless of any
// behavioral fields riding along. Everything else, including an empty request,
// takes the behavioral path and falls through to challenge issuance when the
// signals are too weak. Classification is total; no shape is an error.
func classifyRequest(req VerifyRequest) requestFlow {
	if req.ChallengeToken != "" && req.TextAnswer != "" {
		return flowTextVerify
	}
	return flowBehavioral
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Verify(ctx context.Context, req VerifyRequest) (*VerificationResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	defer e.observeVerifyLatency(start)

	switch classifyRequest(req) {
	case flowTextVerify:
		return e.verifyTextChallenge(ctx, req)
	default:
		return e.verifyBehavioral(ctx, req)
	}
}

func (e *Engine) verifyBehavioral(ctx context.Context, req VerifyRequest) (*VerificationResult, error) {
	score := trustScore(req.Trajectory, req.InteractionTimeMS)

	if score > e.config.Scoring.AcceptThreshold {
		proofToken, err := e.issueProof(score, proof.MethodBehavioral)
		if err != nil {
			return nil, err
		}

		e.metricInc(MetricBehavioralAccepted)
		e.emitAudit(ctx, auditEventBehavioralAccept, true, score, ReasonNone, OutcomeAccepted, nil)

		return &VerificationResult{
			Outcome:  OutcomeAccepted,
			Accepted: true,
			Score:    score,
			Proof:    proofToken,
		}, nil
	}

	challenge, err := e.IssueChallenge(ctx)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricBehavioralChallenged)

	return &VerificationResult{
		Outcome:   OutcomeChallengeIssued,
		Score:     score,
		Challenge: challenge,
	}, nil
}

func (e *Engine) verifyTextChallenge(ctx context.Context, req VerifyRequest) (*VerificationResult, error) {
	// The token is consumed before the answer is checked. A wrong answer still
	// burns the token, so a stolen token cannot be used to brute-force the
	// secret.
	secretHash, ok, err := e.store.Consume(ctx, req.ChallengeToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		e.metricInc(MetricTokenInvalid)
		e.emitAudit(ctx, auditEventTokenInvalid, false, 0, ReasonInvalidOrExpiredToken, OutcomeRejected, tokenRef(req.ChallengeToken))

		return &VerificationResult{
			Outcome: OutcomeRejected,
			Reason:  ReasonInvalidOrExpiredToken,
		}, nil
	}

	answerOK, err := e.hasher.Verify(strings.ToLower(req.TextAnswer), secretHash)
	if err != nil {
		answerOK = false
	}

	rhythmOK := keystrokeHumanLike(req.KeyEvents, e.config.Keystroke)
	if !rhythmOK {
		e.metricInc(MetricKeystrokeRejected)
	}

	if !answerOK || !rhythmOK {
		e.metricInc(MetricTextVerifyMismatch)
		e.emitAudit(ctx, auditEventTextVerifyReject, false, 0, ReasonChallengeMismatch, OutcomeRejected, tokenRef(req.ChallengeToken))

		return &VerificationResult{
			Outcome: OutcomeRejected,
			Reason:  ReasonChallengeMismatch,
		}, nil
	}

	proofToken, err := e.issueProof(0, proof.MethodTextChallenge)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricTextVerifyAccepted)
	e.emitAudit(ctx, auditEventTextVerifyAccept, true, 0, ReasonNone, OutcomeAccepted, tokenRef(req.ChallengeToken))

	return &VerificationResult{
		Outcome:  OutcomeAccepted,
		Accepted: true,
		Proof:    proofToken,
	}, nil
}

// IssueChallenge describes the issuechallenge operation and its observable behavior.
//
// IssueChallenge may return an error when input validation, dependency calls, or security checks fail.
// IssueChallenge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IssueChallenge(ctx context.Context) (*IssuedChallenge, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ip := clientIPFromContext(ctx)
	if err := e.throttle.Check(ctx, ip); err != nil {
		if errors.Is(err, ErrIssueRateLimited) {
			e.metricInc(MetricIssueRateLimited)
			e.emitAudit(ctx, auditEventIssueThrottled, false, 0, ReasonNone, OutcomeRejected, nil)
		}
		return nil, err
	}

	secret, err := internal.NewChallengeSecret(e.config.Challenge.SecretLength)
	if err != nil {
		return nil, err
	}

	// Answers are matched case-insensitively, so the stored hash is taken over
	// the lowercased secret.
	secretHash, err := e.hasher.Hash(strings.ToLower(secret))
	if err != nil {
		return nil, err
	}

	token, err := e.store.Issue(ctx, secretHash, e.config.Challenge.TTL)
	if err != nil {
		return nil, err
	}

	if err := e.throttle.RecordIssue(ctx, ip); err != nil && !errors.Is(err, ErrIssueRateLimited) {
		return nil, err
	}

	e.metricInc(MetricChallengeIssued)
	e.emitAudit(ctx, auditEventChallengeIssued, true, 0, ReasonNone, OutcomeChallengeIssued, tokenRef(token))

	return &IssuedChallenge{
		Token:        token,
		RenderedText: secret,
	}, nil
}

func (e *Engine) issueProof(score int, method proof.VerificationMethod) (string, error) {
	if e.proofs == nil {
		return "", nil
	}

	token, err := e.proofs.Create(score, method)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricProofIssued)
	return token, nil
}
