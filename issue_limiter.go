package humanproof

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// issueThrottle caps how many challenges a single client IP can mint inside
// one cooldown window. It guards the issuance path against mass token
// harvesting; it is not a general rate-limiting service.
type issueThrottle struct {
	redis  redis.UniversalClient
	config IssueThrottleConfig
}

func newIssueThrottle(client redis.UniversalClient, cfg IssueThrottleConfig) *issueThrottle {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "hpt"
	}
	return &issueThrottle{redis: client, config: cfg}
}

func (l *issueThrottle) key(ip string) string {
	return l.config.RedisPrefix + ":" + ip
}

// Check returns ErrIssueRateLimited when ip has exhausted its issuance budget.
// An empty ip is never throttled; callers without IP context stay unaffected.
func (l *issueThrottle) Check(ctx context.Context, ip string) error {
	if l == nil || ip == "" {
		return nil
	}

	count, err := l.redis.Get(ctx, l.key(ip)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrIssueThrottleUnavailable, err)
	}
	if count >= int64(l.config.MaxIssues) {
		return ErrIssueRateLimited
	}
	return nil
}

// RecordIssue counts one minted challenge against ip's budget.
func (l *issueThrottle) RecordIssue(ctx context.Context, ip string) error {
	if l == nil || ip == "" {
		return nil
	}

	count, err := l.redis.Incr(ctx, l.key(ip)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIssueThrottleUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(ip), l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrIssueThrottleUnavailable, err)
		}
	}
	if count > int64(l.config.MaxIssues) {
		return ErrIssueRateLimited
	}
	return nil
}
