package auth

import "context"

// UserContext holds the authenticated dashboard user
type UserContext struct {
	Username    string
	DisplayName string
}

type contextKey string

const (
	userContextKey contextKey = "userContext"
	userHolderKey  contextKey = "userHolder"
)

// UserHolder receives the user authenticated further down the handler chain.
// Outer middleware only sees its own request, so it reads the user from here.
type UserHolder struct {
	user *UserContext
}

// User returns the authenticated user, if any
func (h *UserHolder) User() (*UserContext, bool) {
	if h == nil || h.user == nil {
		return nil, false
	}
	return h.user, true
}

// WithUserHolder attaches an empty holder to the context
func WithUserHolder(ctx context.Context) (context.Context, *UserHolder) {
	holder := &UserHolder{}
	return context.WithValue(ctx, userHolderKey, holder), holder
}

// WithUserContext adds user context to the context and fills the holder
// attached by WithUserHolder
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	if holder, ok := ctx.Value(userHolderKey).(*UserHolder); ok {
		holder.user = user
	}
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}
