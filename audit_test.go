package humanproof

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := verifyTestConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := engine.Verify(context.Background(), VerifyRequest{}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditRejectionEventCarriesReason(t *testing.T) {
	cfg := verifyTestConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16

	sink := NewChannelSink(16)
	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := engine.Verify(context.Background(), VerifyRequest{
		ChallengeToken: "never-issued",
		TextAnswer:     "ABCDEF",
	}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	select {
	case ev := <-sink.Events():
		if ev.EventType != auditEventTokenInvalid {
			t.Fatalf("expected token invalid event, got %q", ev.EventType)
		}
		if ev.Success {
			t.Fatal("expected unsuccessful event")
		}
		if ev.Reason != string(ReasonInvalidOrExpiredToken) {
			t.Fatalf("expected invalid token reason, got %q", ev.Reason)
		}
		if ev.Outcome != OutcomeRejected.String() {
			t.Fatalf("expected rejected outcome, got %q", ev.Outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected audit event to be received")
	}
}

func TestAuditEventsNeverCarrySecrets(t *testing.T) {
	cfg := verifyTestConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 32
	cfg.Audit.DropIfFull = false

	sink := NewChannelSink(32)
	engine, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	challenge, err := engine.IssueChallenge(context.Background())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := engine.Verify(context.Background(), VerifyRequest{
		ChallengeToken: challenge.Token,
		TextAnswer:     challenge.RenderedText,
		KeyEvents:      humanKeyEvents(len(challenge.RenderedText)),
	}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	events := make([]AuditEvent, 0, 4)
	timeout := time.After(2 * time.Second)
collectLoop:
	for len(events) < 4 {
		select {
		case ev := <-sink.Events():
			events = append(events, ev)
		case <-timeout:
			break collectLoop
		}
	}

	if len(events) == 0 {
		t.Fatal("expected at least one audit event")
	}

	for _, ev := range events {
		for k, v := range ev.Metadata {
			if k == challenge.RenderedText || v == challenge.RenderedText {
				t.Fatal("challenge secret leaked in audit metadata")
			}
			if k == challenge.Token || v == challenge.Token {
				t.Fatal("challenge token leaked in audit metadata")
			}
		}
		if ev.Reason == challenge.RenderedText {
			t.Fatal("challenge secret leaked in audit reason")
		}
	}
}

func TestAuditBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: true,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	start := time.Now()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if dispatcher.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestAuditBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	sink := newGateSink()
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 1,
		DropIfFull: false,
	}, sink)
	defer func() {
		close(sink.gate)
		dispatcher.Close()
	}()

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})

	done := make(chan struct{})
	go func() {
		dispatcher.Emit(context.Background(), AuditEvent{EventType: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestAuditJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	event := AuditEvent{
		EventID:   "ev-1",
		Timestamp: time.Now().UTC(),
		EventType: auditEventTextVerifyAccept,
		IP:        "127.0.0.1",
		Success:   true,
	}
	sink.Emit(context.Background(), event)

	if !buf.Contains("verify.text.accept") {
		t.Fatal("expected JSON log line to contain event type")
	}
	if !buf.Contains("\"event_id\":\"ev-1\"") {
		t.Fatal("expected JSON log line to contain event id")
	}
}

func TestAuditDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{
		Enabled:    true,
		BufferSize: 4,
		DropIfFull: true,
	}, &countingSink{})

	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	dispatcher.Close()
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e2"})
}

func TestAuditDisabledDispatcherIsNil(t *testing.T) {
	dispatcher := newAuditDispatcher(AuditConfig{Enabled: false}, &countingSink{})
	if dispatcher != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}

	// Nil receiver methods are safe.
	dispatcher.Emit(context.Background(), AuditEvent{EventType: "e1"})
	dispatcher.Close()
	if dispatcher.Dropped() != 0 {
		t.Fatal("expected zero dropped on nil dispatcher")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Contains(v string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(string(b.buf), v)
}
