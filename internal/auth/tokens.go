package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// TokenBytes is the entropy of a bearer token (256 bits).
const TokenBytes = 32

// NewToken returns a hex encoded random token.
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// TokenStore maps bearer tokens to user ids. Tokens live until Delete;
// there is no expiry.
type TokenStore interface {
	Put(ctx context.Context, token string, userID uint) error
	Lookup(ctx context.Context, token string) (uint, bool, error)
	Delete(ctx context.Context, token string) error
}

// MemoryTokenStore keeps tokens for the life of the process only. It is
// not shared between instances; use RedisTokenStore for that.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]uint
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]uint)}
}

func (s *MemoryTokenStore) Put(_ context.Context, token string, userID uint) error {
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Lookup(_ context.Context, token string) (uint, bool, error) {
	s.mu.RLock()
	uid, ok := s.tokens[token]
	s.mu.RUnlock()
	return uid, ok, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

const redisTokenPrefix = "auth_token:"

// RedisTokenStore shares the token map between instances.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Put(ctx context.Context, token string, userID uint) error {
	return s.client.Set(ctx, redisTokenPrefix+token, strconv.FormatUint(uint64(userID), 10), 0).Err()
}

func (s *RedisTokenStore) Lookup(ctx context.Context, token string) (uint, bool, error) {
	val, err := s.client.Get(ctx, redisTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return uint(id), true, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisTokenPrefix+token).Err()
}
