package sellers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lojaflor/erp-api/internal/redisx"
)

// Sessions stores opaque login tokens in Redis: session:{token} -> seller_id.
type Sessions struct{ Redis *redis.Client }

var ErrNoSession = errors.New("no session for token")

func (s *Sessions) Issue(ctx context.Context, sellerID string) (string, error) {
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.Redis.Set(ctx, key, sellerID, redisx.TTLSession).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Sessions) Resolve(ctx context.Context, token string) (string, error) {
	key := fmt.Sprintf(redisx.KeySession, token)
	sellerID, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return sellerID, nil
}

func (s *Sessions) Revoke(ctx context.Context, token string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}

// BearerToken extracts the token from an Authorization header, with or
// without the "Bearer" prefix.
func BearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	if strings.HasPrefix(h, "Bearer") {
		t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer"))
		return t, t != ""
	}
	return h, true
}
