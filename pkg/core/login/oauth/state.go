package oauth

import (
	"context"
	"sync"
	"time"

	r "github.com/redis/go-redis/v9"
)

// StateStore keeps issued oauth states until they are consumed once.
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Take reports whether state was issued and not yet consumed, and consumes it.
	Take(ctx context.Context, state string) (bool, error)
}

func stateKey(state string) string {
	return "oauth_state:" + state
}

type redisStates struct {
	client *r.Client
}

func NewRedisStates(client *r.Client) StateStore {
	return &redisStates{client: client}
}

func (s *redisStates) Save(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, stateKey(state), "valid", ttl).Err()
}

func (s *redisStates) Take(ctx context.Context, state string) (bool, error) {
	err := s.client.GetDel(ctx, stateKey(state)).Err()
	if err == r.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// memoryStates serves single instance deployments without redis.
type memoryStates struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStates() StateStore {
	return &memoryStates{states: map[string]time.Time{}, now: time.Now}
}

func (s *memoryStates) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(ttl)
	return nil
}

func (s *memoryStates) Take(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return !s.now().After(exp), nil
}
