package handlers

import (
	"context"
	"net/http"
	"time"

	"assetmanager/src/services"
	"assetmanager/src/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type userIDKey struct{}

const requestIDHeader = "X-Request-ID"

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int)
	return userID, ok
}

// RequestLogger attaches a request scoped logger entry to the context and logs each
// request once it completes.
func (h *Handler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		entry := h.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(utils.WithLogger(r.Context(), entry)))

		entry.WithFields(logrus.Fields{
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	})
}

// Authenticate rejects requests without a valid token and stores the caller's user id.
// It must run after jwtauth.Verifier.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			utils.WriteError(w, utils.Unauthorized("auth token not detected or invalid"))
			return
		}
		userID, err := services.UserIDFromClaims(claims)
		if err != nil {
			h.HandleErrors(w, err)
			return
		}

		ctx := WithUserID(r.Context(), userID)
		entry := utils.LoggerFromContext(ctx).WithField("user_id", userID)
		next.ServeHTTP(w, r.WithContext(utils.WithLogger(ctx, entry)))
	})
}

// currentUser reads the id stored by Authenticate.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, utils.Unauthorized("auth token not detected"))
		return 0, false
	}
	return userID, true
}
