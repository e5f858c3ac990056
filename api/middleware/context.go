package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// Principal is the authenticated caller attached by Auth.
type Principal struct {
	UserID uuid.UUID
	Role   enums.Role
}

type principalKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller; ok is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != uuid.Nil
}

// UserUUIDFromContext returns the authenticated user id.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}

// UserIDFromContext is the string form of the user id, "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := UserUUIDFromContext(ctx); ok {
		return id.String()
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.Role {
	p, _ := PrincipalFromContext(ctx)
	return p.Role
}
