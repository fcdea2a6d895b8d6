// Package identity answers "who is the current user" for a request.
package identity

import (
	"context"

	"restaurante/internal/model"
)

// Provider yields the current user or none.
type Provider interface {
	Current(ctx context.Context) (*model.User, bool)
}

type contextKey struct{}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFrom returns the user stored by WithUser.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*model.User)
	return user, ok && user != nil
}

// ContextProvider reads the user placed in the request context by the auth middleware.
type ContextProvider struct{}

// Current implements Provider.
func (ContextProvider) Current(ctx context.Context) (*model.User, bool) {
	return UserFrom(ctx)
}

// Require returns the current user or model.ErrUnauthenticated.
func Require(ctx context.Context, p Provider) (*model.User, error) {
	user, ok := p.Current(ctx)
	if !ok {
		return nil, model.ErrUnauthenticated
	}
	return user, nil
}

// RequireStaff returns the current user when they are a manager or admin.
func RequireStaff(ctx context.Context, p Provider) (*model.User, error) {
	user, err := Require(ctx, p)
	if err != nil {
		return nil, err
	}
	if !user.IsStaff() {
		return nil, model.ErrForbidden
	}
	return user, nil
}
