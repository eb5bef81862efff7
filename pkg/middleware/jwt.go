package middleware

import (
	"context"
	"net/http"
	"strings"

	"accountsvc/pkg/claims"
	"accountsvc/pkg/token"
)

// CheckJWT guards a subrouter with the stateless bearer-token check. It
// deliberately performs no session lookup: the token path and the session
// path have independent lifecycles.
func CheckJWT(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			c, err := issuer.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil || c.UserID == 0 {
				http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claims.TokenContextKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
