package handler

import (
	"encoding/json"
	"net/http"

	"github.com/moim/ledger-notify/internal/application/token"
	"github.com/moim/ledger-notify/internal/domain"
	"github.com/moim/ledger-notify/internal/pkg/validate"
	"github.com/moim/ledger-notify/internal/transport/http/middleware"
)

// TokenHandler handles push token registration.
type TokenHandler struct {
	svc token.Service
}

func NewTokenHandler(svc token.Service) *TokenHandler {
	return &TokenHandler{svc: svc}
}

// Register upserts the authenticated caller's push token. The token always
// belongs to the caller; there is no way to register on another user's
// behalf.
func (h *TokenHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.RegisterPushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.Register(r.Context(), claims.UserID, req.Token)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
