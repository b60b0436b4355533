package middleware

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
)

// ContextKey is a private type for request-scoped values.
type ContextKey string

const (
	PrincipalCtxKey    = ContextKey("principal")
	requestStateCtxKey = ContextKey("request_state")
)

// requestState is shared between the outer logging middleware and the inner
// auth middleware, whose context the logger never sees.
type requestState struct {
	userID string
}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	if st, ok := ctx.Value(requestStateCtxKey).(*requestState); ok {
		st.userID = p.ID.Hex()
	}
	return context.WithValue(ctx, PrincipalCtxKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(domain.Principal)
	return p, ok
}
