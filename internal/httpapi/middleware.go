package httpapi

import (
	"net/http"
	"strings"

	"github.com/aleister1102/zoneshift/internal/pattern"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"golang.org/x/text/language"
)

// SessionConfig names where a request carries its timezone and locale.
type SessionConfig struct {
	Header       string
	Cookie       string
	LocaleHeader string
}

// Session stores the request's timezone and locale in its context. The
// header wins over the cookie. An unknown timezone is rejected.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tz := sessionTimezone(r, cfg); tz != "" {
				if !timezone.IsValid(tz) {
					WriteError(w, timezone.NewInvalidArgument("session timezone", tz+" is not a known timezone"))
					return
				}
				ctx = timezone.WithSessionTimezone(ctx, tz)
			}

			if cfg.LocaleHeader != "" {
				if locale := acceptedLocale(r.Header.Get(cfg.LocaleHeader)); locale != "" {
					ctx = timezone.WithSessionLocale(ctx, locale)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionTimezone(r *http.Request, cfg SessionConfig) string {
	if cfg.Header != "" {
		if tz := strings.TrimSpace(r.Header.Get(cfg.Header)); tz != "" {
			return tz
		}
	}
	if cfg.Cookie != "" {
		if c, err := r.Cookie(cfg.Cookie); err == nil {
			return strings.TrimSpace(c.Value)
		}
	}
	return ""
}

// acceptedLocale returns the first supported locale of an Accept-Language
// value in preference order.
func acceptedLocale(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if l, ok := pattern.ResolveLocale(tag.String()); ok {
			return string(l)
		}
	}
	return ""
}
