package handlers

import (
	"context"
	"net/http"
	"strconv"

	"assetmanager/src/models"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"
)

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", utils.DefaultPageSize)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	query := r.URL.Query()
	assets, err := h.Controller.ListAssets(ctx, userID, schemas.AssetListQuery{
		Type:     models.AssetType(query.Get("type")),
		Search:   query.Get("search"),
		Sort:     query.Get("sort"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, assets, http.StatusOK)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	asset, err := h.Controller.GetAsset(ctx, userID, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, asset, http.StatusOK)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	req := new(schemas.CreateAssetRequest)
	if err := decodeBody(r, req, false); err != nil {
		h.HandleErrors(w, err)
		return
	}

	asset, err := h.Controller.CreateAsset(ctx, userID, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	w.Header().Set("Location", "/api/assets/"+strconv.Itoa(asset.ID))
	h.respond(w, r, asset, http.StatusCreated)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	req := new(schemas.UpdateAssetRequest)
	if err := decodeBody(r, req, false); err != nil {
		h.HandleErrors(w, err)
		return
	}

	asset, err := h.Controller.UpdateAsset(ctx, userID, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, asset, http.StatusOK)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.Controller.DeleteAsset(ctx, userID, id); err != nil {
		h.HandleErrors(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ValidateSymbol(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	req := new(schemas.ValidateSymbolRequest)
	if err := decodeBody(r, req, false); err != nil {
		h.HandleErrors(w, err)
		return
	}

	result, err := h.Controller.ValidateSymbol(ctx, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}
