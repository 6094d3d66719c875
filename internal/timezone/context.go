package timezone

import "context"

type contextKey string

const (
	sessionTimezoneKey contextKey = "session_timezone"
	sessionLocaleKey   contextKey = "session_locale"
)

// WithSessionTimezone stores the caller's session timezone in ctx.
func WithSessionTimezone(ctx context.Context, timezone string) context.Context {
	return context.WithValue(ctx, sessionTimezoneKey, timezone)
}

// SessionTimezoneFrom returns the session timezone stored in ctx, if any.
func SessionTimezoneFrom(ctx context.Context) string {
	if tz, ok := ctx.Value(sessionTimezoneKey).(string); ok {
		return tz
	}
	return ""
}

// WithSessionLocale stores the caller's session locale in ctx.
func WithSessionLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, sessionLocaleKey, locale)
}

// SessionLocaleFrom returns the session locale stored in ctx, if any.
func SessionLocaleFrom(ctx context.Context) string {
	if l, ok := ctx.Value(sessionLocaleKey).(string); ok {
		return l
	}
	return ""
}

// ForContext applies the session timezone found in ctx.
func (e *Engine) ForContext(ctx context.Context) (*Engine, error) {
	return e.ForSession(SessionTimezoneFrom(ctx))
}
