package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"assetmanager/src/utils"
)

const exportTimeout = 30 * time.Second

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.Controller.GetPortfolio(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, summary, http.StatusOK)
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	performance, err := h.Controller.GetPerformance(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, performance, http.StatusOK)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	days, err := queryInt(r, "days", utils.DefaultHistoryDays)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	history, err := h.Controller.GetHistory(ctx, userID, days)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, history, http.StatusOK)
}

func (h *Handler) ExportPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	xlsxFile, err := h.Controller.ExportPortfolio(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	defer xlsxFile.Close()

	filename := fmt.Sprintf("portfolio-%s.xlsx", time.Now().UTC().Format(utils.ShortDashDateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := xlsxFile.Write(w); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("writing export")
	}
}
