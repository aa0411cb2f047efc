package httpx

import (
	"context"
	"net/http"

	"github.com/lojaflor/erp-api/internal/sellers"
)

type ctxKey int

const (
	ctxKeySellerID ctxKey = iota
	ctxKeyToken
)

// SellerID returns the authenticated seller for the request, or "".
func SellerID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeySellerID).(string)
	return id
}

func requestToken(ctx context.Context) string {
	t, _ := ctx.Value(ctxKeyToken).(string)
	return t
}

// Auth resolves the bearer token into a seller ID and rejects requests
// without a live session.
func Auth(sessions *sellers.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sellers.BearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			sellerID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeySellerID, sellerID)
			ctx = context.WithValue(ctx, ctxKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
