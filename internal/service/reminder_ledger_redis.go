package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const reminderClaimTTL = 48 * time.Hour

// RedisReminderLedger stamps each (page, kind, day) so a rerun of the sweep on
// the same day does not resend.
type RedisReminderLedger struct {
	client *redis.Client
	prefix string
}

func NewRedisReminderLedger(client *redis.Client) *RedisReminderLedger {
	return &RedisReminderLedger{client: client, prefix: "reminder"}
}

func (l *RedisReminderLedger) Claim(ctx context.Context, pageID uuid.UUID, kind ReminderKind, day string) (bool, error) {
	return l.client.SetNX(ctx, l.key(pageID, kind, day), time.Now().UTC().Format(time.RFC3339), reminderClaimTTL).Result()
}

func (l *RedisReminderLedger) Release(ctx context.Context, pageID uuid.UUID, kind ReminderKind, day string) error {
	return l.client.Del(ctx, l.key(pageID, kind, day)).Err()
}

func (l *RedisReminderLedger) key(pageID uuid.UUID, kind ReminderKind, day string) string {
	return fmt.Sprintf("%s:%s:%s:%s", l.prefix, kind, pageID, day)
}
