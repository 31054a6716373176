package router

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/railcheck/tc-api/internal/httpapi"
)

// KeyValidator is the slice of the credential service the request gate
// needs to admit or reject a request.
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (bool, error)
	ResolveAPIKey(ctx context.Context, apiKey string) (int64, error)
}

// APIKeyGate authenticates every request to a protected route. The
// Authorization header carries the raw api key with no scheme prefix.
// A missing header answers 400, an unknown key 401; the wrapped handler
// only ever runs with a resolved account id bound to the request context.
func APIKeyGate(auth KeyValidator, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Authorization")
			if key == "" {
				httpapi.WriteJSON(w, http.StatusBadRequest,
					httpapi.Failure("Api key is misssing"))
				return
			}

			valid, err := auth.ValidateAPIKey(r.Context(), key)
			if err != nil {
				logger.Warnw("api key validation failed", "err", err)
				httpapi.WriteJSON(w, http.StatusInternalServerError,
					httpapi.Failure("An error occurred. Please try again"))
				return
			}
			if !valid {
				httpapi.WriteJSON(w, http.StatusUnauthorized,
					httpapi.Failure("Access Denied. Invalid Api key"))
				return
			}

			id, err := auth.ResolveAPIKey(r.Context(), key)
			if err != nil {
				logger.Warnw("api key resolve failed", "err", err)
				httpapi.WriteJSON(w, http.StatusInternalServerError,
					httpapi.Failure("An error occurred. Please try again"))
				return
			}

			next.ServeHTTP(w, r.WithContext(httpapi.WithTCID(r.Context(), id)))
		})
	}
}
