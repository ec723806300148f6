package handlers

import (
	"context"
	"net/http"

	"assetmanager/src/schemas"
)

const tokenCookieName = "jwt"

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	settings, err := h.Controller.GetSettings(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, settings, http.StatusOK)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	req := new(schemas.UpdateUserSettingsRequest)
	if err := decodeBody(r, req, false); err != nil {
		h.HandleErrors(w, err)
		return
	}

	settings, err := h.Controller.UpdateSettings(ctx, userID, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, settings, http.StatusOK)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.Controller.GetProfile(ctx, userID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, profile, http.StatusOK)
}

// DevLogin issues a token for a local user. The token is returned in the body and also
// set as a cookie for browser clients.
func (h *Handler) DevLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	req := new(schemas.DevLoginRequest)
	if err := decodeBody(r, req, true); err != nil {
		h.HandleErrors(w, err)
		return
	}

	token, err := h.Controller.DevLogin(ctx, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token.AccessToken,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.respond(w, r, token, http.StatusOK)
}
