package logger

import (
	"context"
	"fmt"
)

// contextKey is a private type to avoid collisions in context.
type contextKey string

const ctxRID contextKey = "rid"

// WithRID attaches a request correlation id into context.
func WithRID(ctx context.Context, rid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRID, rid)
}

// RIDFrom extracts rid from context if present.
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(ctxRID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// BuildRID returns a correlation identifier in the format updateID:chatID.
func BuildRID(updateID int, chatID int64) string {
	return fmt.Sprintf("%d:%d", updateID, chatID)
}
