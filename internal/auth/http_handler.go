package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

type tokenManager interface {
	Token() (*oauth2.Token, error)
	Drop() error
}

// HTTPHandler exposes the stored token state over HTTP: a status page
// with the masked access token, and ?reauth=1 to drop the token so the
// next tool call re-runs the consent flow.
type HTTPHandler struct {
	mgr tokenManager
}

// NewHTTPHandler creates an HTTP handler over the token manager.
func NewHTTPHandler(mgr tokenManager) *HTTPHandler {
	return &HTTPHandler{mgr: mgr}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("reauth") != "" {
		if err := h.mgr.Drop(); err != nil {
			log.Println("h.mgr.Drop failed", err)
			http.Error(w, "Unable to drop stored token", http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprintln(w, "Token dropped, consent will run on the next tool call")
		return
	}

	t, err := h.mgr.Token()
	if errors.Is(err, ErrTokenNotSet) {
		http.Error(w, "Token not found", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Println("h.mgr.Token failed", err)
		http.Error(w, "Unable to read stored token", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Token: %s, expires: %s", maskLeft(t.AccessToken), t.Expiry.Format(time.RFC3339))
}

func maskLeft(s string) string {
	rs := []rune(s)
	for i := 0; i < len(rs)-4; i++ {
		rs[i] = 'X'
	}
	return string(rs)
}
