package debugserver

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
)

type ctxKey int

const ctxKeySessionID ctxKey = iota

// requireAuth is chi-compatible middleware that rejects any request
// without a valid bearer token, after an anti-flood delay, mirroring the
// "delay before reporting unauthorized" idiom used by the teacher's own
// auth middleware.
func requireAuth(secret []byte, unauthDelay time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := bearerToken(req)
			if err == nil {
				var sessionID interface{}
				if id, verr := verifySessionToken(tok, secret); verr == nil {
					sessionID = id
					ctx := context.WithValue(req.Context(), ctxKeySessionID, sessionID)
					next.ServeHTTP(w, req.WithContext(ctx))
					return
				}
				err = fmt.Errorf("invalid session token")
			}
			time.Sleep(unauthDelay)
			unauthorized(err.Error()).write(w)
		})
	}
}

// recoverPanic returns a 500 instead of crashing the server, logging the
// stack trace to stderr for the operator.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				debug.PrintStack()
				internalServerError("panic: %v", p).write(w)
			}
		}()
		next.ServeHTTP(w, req)
	})
}
