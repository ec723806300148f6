package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"assetmanager/src/api/controllers"
	"assetmanager/src/services"
	"assetmanager/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
}

func NewHandler(controller controllers.IController, logger *logrus.Logger) *Handler {
	return &Handler{Controller: controller, Logger: logger}
}

type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(envelope{Success: true, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors translates service errors into HTTP status codes.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var (
		httpErr       *utils.HTTPError
		validationErr *services.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.WriteError(w, utils.ValidationFailed("Validation failed", validationErr.Fields))
	case errors.Is(err, services.ErrUnsupportedCurrency):
		utils.WriteError(w, utils.BadRequest(err.Error()))
	case errors.Is(err, services.ErrAssetNotFound), errors.Is(err, services.ErrUserNotFound):
		utils.WriteError(w, utils.NotFound(err.Error()))
	case errors.Is(err, services.ErrInvalidToken):
		utils.WriteError(w, utils.Unauthorized(err.Error()))
	case errors.Is(err, services.ErrRateUnavailable):
		utils.WriteError(w, utils.BadGateway(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteError(w, utils.NewHTTPError(http.StatusGatewayTimeout, "Request timed out"))
	case errors.As(err, &httpErr):
		utils.WriteError(w, httpErr)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("unhandled error")
		}
		utils.WriteError(w, utils.InternalServerError("Internal Server Error"))
	}
}

func Healthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// decodeBody reads a JSON body into dst. An empty body is accepted when allowEmpty is set.
func decodeBody(r *http.Request, dst interface{}, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return utils.BadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, utils.BadRequest("invalid id")
	}
	return id, nil
}

// queryInt returns fallback when the parameter is absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest(fmt.Sprintf("%s must be an integer", name))
	}
	return value, nil
}
