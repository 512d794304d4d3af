package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/inventory/internal/auth"
)

const flashCookie = "flash"

// setFlash stores a one-shot message shown on the next rendered page.
func (s *Server) setFlash(w http.ResponseWriter, message string) {
	token, err := auth.SignFlash(s.Secret, message)
	if err != nil {
		slog.Error("failed to sign flash message", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.FlashExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending flash message, if any, and clears it.
// Tampered or expired cookies are dropped silently.
func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	clearFlash(w)

	msg, err := auth.ReadFlash(s.Secret, cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// clearFlash clears the flash cookie with consistent attributes.
func clearFlash(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
