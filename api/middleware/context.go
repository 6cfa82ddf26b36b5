package middleware

import "context"

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxRole    contextKey = "editor_role"
	ctxBrandID contextKey = "brand_id"
	ctxReqID   contextKey = "request_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// BrandIDFromContext returns the brand the caller's token is scoped to.
func BrandIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxBrandID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithBrandID injects the brand identifier into the context for downstream handlers.
func WithBrandID(ctx context.Context, brandID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBrandID, brandID)
}

// WithRole injects the caller's editor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithRequestID stores the correlation id assigned by RequestID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxReqID, reqID)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxReqID)
}
