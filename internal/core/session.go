package core

import "context"

type sessionKey struct{}

// WithSessionID tags ctx with the conversation it belongs to, so tools can
// attribute the records they write.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
