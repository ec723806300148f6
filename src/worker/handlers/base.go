package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"assetmanager/src/utils"
	"assetmanager/src/worker/controllers"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
}

func NewHandler(controller controllers.IController, logger *logrus.Logger) *Handler {
	return &Handler{Controller: controller, Logger: logger}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(map[string]interface{}{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	if errors.Is(err, context.DeadlineExceeded) {
		utils.WriteError(w, utils.NewHTTPError(http.StatusGatewayTimeout, "Request timed out"))
	} else if errors.Is(err, controllers.ErrRunInProgress) {
		utils.WriteError(w, utils.NewHTTPError(http.StatusConflict, err.Error()))
	} else if errors.As(err, &httpErr) {
		utils.WriteError(w, httpErr)
	} else {
		h.Logger.WithError(err).Error("unhandled error")
		utils.WriteError(w, utils.InternalServerError("Internal Server Error"))
	}
}

func Healthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
