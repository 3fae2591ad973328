package actorctx

import "context"

type ctxKey struct{}

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID int64
	Role   string
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func From(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)

	return a, ok && a.UserID != 0
}

func UserIDFrom(ctx context.Context) (int64, bool) {
	a, ok := From(ctx)

	return a.UserID, ok
}
