package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"authlander/pkg/platform/httputil"
)

// handleTokenGet brokers a short-lived access token for the user. An account
// without a stored refresh token is answered as a Conflict carrying the
// inactive result; the account has already been marked inactive by then.
func (h *Handler) handleTokenGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	brokered, err := h.auth.BrokerToken(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !brokered.Active {
		httputil.WriteJSON(w, http.StatusConflict, TokenResponse{Active: false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: &brokered.AccessToken,
		Expiry:      &brokered.Expiry,
		Active:      true,
	})
}
