package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vancomm/sweeper/internal/config"
)

type CtxKey int

const (
	CtxGameID CtxKey = iota
)

// GameToken reads the token from the Authorization header, or from the
// "token" query parameter for clients that cannot set headers.
func GameToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// RequireGame rejects requests whose token does not grant the game named by
// the {id} path value. It must wrap a handler registered with that pattern.
func RequireGame(j *config.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.PathValue("id"))
			if err != nil {
				http.Error(w, "invalid game id", http.StatusNotFound)
				return
			}
			token := GameToken(r)
			if token == "" {
				http.Error(w, "missing game token", http.StatusUnauthorized)
				return
			}
			if err := j.Authorize(token, id); err != nil {
				Log.WithError(err).WithField("game", id.String()).Debug("rejected game token")
				http.Error(w, "invalid game token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxGameID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GameID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(CtxGameID).(uuid.UUID)
	return id, ok
}
