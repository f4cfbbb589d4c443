package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"github.com/google/uuid"
)

var (
	ErrNoAuthHeader = errors.New("no authorization header")
	ErrNoToken      = errors.New("no token in authorization header")
	ErrTokenPayload = errors.New("token has no user id")
	ErrUserNotFound = errors.New("token user not found")
)

// Principal is the authenticated user attached to a request.
type Principal struct {
	ID    uuid.UUID
	Email string
}

type UserLookup interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Guard struct {
	tokens *Tokens
	users  UserLookup
}

func NewGuard(tokens *Tokens, users UserLookup) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate resolves the Authorization header value to a principal.
// Every failure is one of the sentinel errors in this package, except user
// lookup failures which are returned wrapped.
func (g *Guard) Authenticate(ctx context.Context, header string) (Principal, error) {
	if header == "" {
		return Principal{}, ErrNoAuthHeader
	}

	parts := strings.Fields(header)
	if len(parts) < 2 {
		return Principal{}, ErrNoToken
	}

	claims, err := g.tokens.Parse(parts[1])
	if err != nil {
		return Principal{}, err
	}

	if claims.UserID == "" {
		return Principal{}, ErrTokenPayload
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Principal{}, ErrTokenPayload
	}

	user, err := g.users.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Principal{}, ErrUserNotFound
	}
	if err != nil {
		return Principal{}, fmt.Errorf("find user: %w", err)
	}

	return Principal{ID: user.ID, Email: user.Email}, nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
