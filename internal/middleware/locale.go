package middleware

import (
	"context"
	"net/http"

	"github.com/lbatschelet/feelvonroll-admin/internal/utils"
)

type ctxKey int

const localeKey ctxKey = 1

// Locales the console itself can answer in; questionnaire languages are a
// separate, server-managed list.
var consoleLocales = []string{"de", "fr", "en"}

// LocaleMiddleware resolves the request locale from the lang query param or
// Accept-Language and stores it in the request context.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		qLang := r.URL.Query().Get("lang")
		aLang := r.Header.Get("Accept-Language")
		locale := utils.DetermineLocale(qLang, aLang, consoleLocales, "de")
		ctx := context.WithValue(r.Context(), localeKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext retrieves the locale stored by LocaleMiddleware.
func LocaleFromContext(ctx context.Context) string {
	if v := ctx.Value(localeKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "de"
}
