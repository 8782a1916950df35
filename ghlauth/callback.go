package ghlauth

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// WaitForCallback runs a loopback HTTP server on port until the OAuth
// callback delivers an authorization code, then shuts the server down and
// returns the code. A state mismatch or provider error fails the wait.
func WaitForCallback(ctx context.Context, port int, expectedState string) (string, error) {
	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if state := query.Get("state"); state != expectedState {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("ghlauth: state mismatch in callback")}
			return
		}

		code := query.Get("code")
		if code == "" {
			errName := query.Get("error")
			errDesc := query.Get("error_description")
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errName, errDesc), http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("ghlauth: authorization failed: %s - %s", errName, errDesc)}
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, `<html><body><h1>Authorization successful!</h1>`+
			`<p>You can close this window and return to the application.</p></body></html>`)
		results <- callbackResult{code: code}
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-results:
		return result.code, result.err
	case err := <-errs:
		return "", fmt.Errorf("ghlauth: callback server failed: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
