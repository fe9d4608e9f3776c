package api

import "context"

// Actor is the authenticated user attached to a request. Kept here (not in
// internal/user) so domain packages can read it without importing the user
// admin surface.
type Actor struct {
	ID    int64
	Email string
	Name  string
	Role  string
}

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) *Actor {
	v := ctx.Value(ctxKeyActor)
	if v == nil {
		return nil
	}
	a, _ := v.(*Actor)
	return a
}
