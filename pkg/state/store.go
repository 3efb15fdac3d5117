package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conversational state labels. The label is a cheap hint for prompt framing,
// not a strict machine state.
const (
	StateInitialGreeting     = "initial_greeting"
	StateGeneralConversation = "general_conversation"
	StatePlanningTrip        = "planning_trip"
)

const (
	sessionStateTTL  = 24 * time.Hour
	prefetchedTTL    = 1 * time.Hour
	sessionKeyPrefix = "session_state:"
	prefetchPrefix   = "prefetched_info:"
)

// Store holds short-term conversational state in Redis: the per-session
// state label and prefetched context blobs.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// GetSessionState returns the current label, defaulting to general
// conversation when the key is missing or Redis is unreachable.
func (s *Store) GetSessionState(ctx context.Context, sessionId string) string {
	value, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionId).Result()
	if err != nil {
		return StateGeneralConversation
	}
	return value
}

func (s *Store) SetSessionState(ctx context.Context, sessionId, label string) error {
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionId, label, sessionStateTTL).Err(); err != nil {
		return fmt.Errorf("set session state: %w", err)
	}
	return nil
}

func (s *Store) SetPrefetchedInfo(ctx context.Context, sessionId, info string) error {
	if err := s.rdb.Set(ctx, prefetchPrefix+sessionId, info, prefetchedTTL).Err(); err != nil {
		return fmt.Errorf("set prefetched info: %w", err)
	}
	return nil
}

func (s *Store) GetPrefetchedInfo(ctx context.Context, sessionId string) (string, bool) {
	value, err := s.rdb.Get(ctx, prefetchPrefix+sessionId).Result()
	if err != nil {
		// redis.Nil and an unreachable Redis both mean the same thing
		// here: no prefetched context this turn.
		return "", false
	}
	return value, true
}
