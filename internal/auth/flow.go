package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
)

// LocalServerFlow runs the interactive consent exchange: it listens on an
// ephemeral loopback port, opens the authorization URL in a browser and
// waits for Google to redirect back with the authorization code.
type LocalServerFlow struct {
	cfg *oauth2.Config

	// openURL is swappable in tests to avoid launching a browser.
	openURL func(url string)
}

// NewLocalServerFlow creates a consent flow for the given OAuth2 config.
// The config's RedirectURL is replaced per run with the loopback address.
func NewLocalServerFlow(cfg *oauth2.Config) *LocalServerFlow {
	return &LocalServerFlow{
		cfg:     cfg,
		openURL: openBrowser,
	}
}

type callbackResult struct {
	code string
	err  error
}

// Authorize performs the authorization-code exchange and returns the token.
func (f *LocalServerFlow) Authorize(ctx context.Context) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("net.Listen failed: %w", err)
	}
	defer func() { _ = ln.Close() }()

	cfg := *f.cfg
	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generateState failed: %w", err)
	}

	resultCh := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "Invalid state parameter", http.StatusBadRequest)
				resultCh <- callbackResult{err: errors.New("invalid state parameter")}
				return
			}
			code := q.Get("code")
			if code == "" {
				http.Error(w, "Missing authorization code", http.StatusBadRequest)
				resultCh <- callbackResult{err: errors.New("missing authorization code")}
				return
			}
			_, _ = fmt.Fprintln(w, "Authorization complete, you can close this window.")
			resultCh <- callbackResult{code: code}
		}),
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			resultCh <- callbackResult{err: fmt.Errorf("srv.Serve failed: %w", err)}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	log.Println("Waiting for OAuth consent at", cfg.RedirectURL)
	f.openURL(authURL)

	var res callbackResult
	select {
	case res = <-resultCh:
	case <-ctx.Done():
		return nil, fmt.Errorf("consent flow aborted: %w", ctx.Err())
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("cfg.Exchange failed: %w", err)
	}

	return tok, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please copy and open link in the browser: %s\n", err, url)
	}
}
