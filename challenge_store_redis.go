package humanproof

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeRecordVersionV1 = 1

// RedisChallengeStore is a [ChallengeStore] backed by redis, for deployments
// where verification requests are spread across processes. GETDEL makes
// Consume a single atomic fetch-and-remove; the key TTL enforces expiry, with
// the recorded expiry double-checked on read.
type RedisChallengeStore struct {
	redis    redis.UniversalClient
	prefix   string
	strategy TokenStrategyType
}

// NewRedisChallengeStore describes the newredischallengestore operation and its observable behavior.
//
// NewRedisChallengeStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisChallengeStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisChallengeStore(client redis.UniversalClient, cfg ChallengeConfig) *RedisChallengeStore {
	prefix := cfg.RedisPrefix
	if prefix == "" {
		prefix = "hpc"
	}
	return &RedisChallengeStore{
		redis:    client,
		prefix:   prefix,
		strategy: cfg.TokenStrategy,
	}
}

func (s *RedisChallengeStore) key(token string) string {
	return s.prefix + ":" + token
}

// Issue describes the issue operation and its observable behavior.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisChallengeStore) Issue(ctx context.Context, secretHash string, ttl time.Duration) (string, error) {
	token, err := newChallengeToken(s.strategy)
	if err != nil {
		return "", err
	}

	encoded, err := encodeChallengeRecord(secretHash, time.Now().Add(ttl).UnixMilli())
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, s.key(token), encoded, ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChallengeStoreUnavailable, err)
	}

	return token, nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisChallengeStore) Consume(ctx context.Context, token string) (string, bool, error) {
	data, err := s.redis.GetDel(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrChallengeStoreUnavailable, err)
	}

	secretHash, expiresAt, err := decodeChallengeRecord(data)
	if err != nil {
		return "", false, err
	}
	if time.Now().UnixMilli() > expiresAt {
		return "", false, nil
	}

	return secretHash, true, nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisChallengeStore) Close() {}

func encodeChallengeRecord(secretHash string, expiresAt int64) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(challengeRecordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, expiresAt); err != nil {
		return nil, err
	}

	if len(secretHash) > 65535 {
		return nil, errors.New("challenge record secret hash too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(secretHash))); err != nil {
		return nil, err
	}
	buf.WriteString(secretHash)

	return buf.Bytes(), nil
}

func decodeChallengeRecord(data []byte) (string, int64, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return "", 0, err
	}
	if version != challengeRecordVersionV1 {
		return "", 0, errors.New("invalid challenge record version")
	}

	var expiresAt int64
	if err := binary.Read(reader, binary.BigEndian, &expiresAt); err != nil {
		return "", 0, err
	}

	var hashLen uint16
	if err := binary.Read(reader, binary.BigEndian, &hashLen); err != nil {
		return "", 0, err
	}

	hash := make([]byte, hashLen)
	if _, err := io.ReadFull(reader, hash); err != nil {
		return "", 0, err
	}

	return string(hash), expiresAt, nil
}
