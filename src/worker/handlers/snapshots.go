package handlers

import (
	"context"
	"net/http"
	"time"

	"assetmanager/src/utils"
)

const snapshotRunTimeout = 5 * time.Minute

func (h *Handler) RunSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), snapshotRunTimeout)
	defer cancel()
	ctx = utils.WithLogger(ctx, h.Logger.WithField("trigger", "http"))

	result, err := h.Controller.RunSnapshots(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}
