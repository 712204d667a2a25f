package session

import (
	"context"
	"time"

	"github.com/Mhmdshannon/Spark/internal/cache"
	"github.com/Mhmdshannon/Spark/internal/supabase"
	"github.com/Mhmdshannon/Spark/pkg/safecall"
	"github.com/Mhmdshannon/Spark/pkg/utils"
)

const (
	resolverCacheTTL = 30 * time.Second
	resolveBudget    = 500 * time.Millisecond
)

// Resolver answers "who is behind this token" on the request path. Answers
// are cached per token so bursts of guarded requests cost one lookup. With
// the project JWT secret configured, tokens verify locally and no network
// call happens at all.
type Resolver struct {
	auth      *supabase.AuthClient
	jwtSecret string
	cache     *cache.Cache[*supabase.User]
}

func NewResolver(auth *supabase.AuthClient, jwtSecret string) *Resolver {
	return &Resolver{
		auth:      auth,
		jwtSecret: jwtSecret,
		cache:     cache.New[*supabase.User](resolverCacheTTL),
	}
}

// Resolve returns the identity behind the token, or nil when the token is
// empty, invalid, or the lookup ran out of budget. Callers treat nil as "no
// session".
func (r *Resolver) Resolve(ctx context.Context, token string) *supabase.User {
	if token == "" {
		return nil
	}
	if user, ok := r.cache.Get(token); ok {
		return user
	}

	user := r.resolve(ctx, token)
	if user != nil {
		r.cache.Set(token, user)
	}
	return user
}

func (r *Resolver) resolve(ctx context.Context, token string) *supabase.User {
	if r.jwtSecret != "" {
		claims, err := utils.ValidateToken(token, r.jwtSecret)
		if err != nil {
			return nil
		}
		return &supabase.User{ID: claims.UserID, Email: claims.Email}
	}

	return safecall.Do(ctx, "session check", resolveBudget, nil,
		func(ctx context.Context) (*supabase.User, error) {
			return r.auth.GetUser(ctx, token)
		})
}

// Invalidate drops the cached identity for a token, used at sign-out.
func (r *Resolver) Invalidate(token string) {
	r.cache.Invalidate(token)
}
