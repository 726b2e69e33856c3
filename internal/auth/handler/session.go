package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"authlander/internal/auth/models"
	dErrors "authlander/pkg/domain-errors"
	"authlander/pkg/platform/httputil"
	"authlander/pkg/platform/sentinel"
)

// handleSessionCheck validates a session handle. Expiry is enforced on this
// read, so a just-expired session answers Unauthorized here and NotFound on
// the next call. A live session owned by an inactive account does not count
// as valid: callers gating on session_valid alone must not admit it.
func (h *Handler) handleSessionCheck(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.resolveSession(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SessionCheckResponse{
		SessionValid: user.Active,
		Active:       user.Active,
	})
}

// handleSessionDescribe returns the session snapshot along with the owning
// user's profile. An inactive user yields only the active flag.
func (h *Handler) handleSessionDescribe(w http.ResponseWriter, r *http.Request) {
	user, session, err := h.resolveSession(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !user.Active {
		httputil.WriteJSON(w, http.StatusOK, SessionDescribeResponse{Active: false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SessionDescribeResponse{
		Active:  true,
		UserID:  &user.ID,
		Expiry:  &session.Expiry,
		Name:    user.Name,
		Email:   &user.Email,
		Picture: user.Picture,
	})
}

// resolveSession checks the handle from the URL and loads its user, mapping
// store outcomes onto the endpoint contract: absent and expired handles are
// both Unauthorized, a session pointing at a vanished user is Conflict.
func (h *Handler) resolveSession(r *http.Request) (*models.User, *models.Session, error) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.auth.CheckSession(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "no session exists for the provided session_id").WithField("session_id")
		case errors.Is(err, sentinel.ErrExpired):
			return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "the session has expired").WithField("session_id")
		default:
			return nil, nil, err
		}
	}

	user, err := h.auth.ResolveSessionUser(r.Context(), session)
	if err != nil {
		if errors.Is(err, sentinel.ErrDangling) {
			return nil, nil, dErrors.New(dErrors.CodeConflict, "the session does not belong to a known user").WithField("session_id")
		}
		return nil, nil, err
	}
	return user, session, nil
}
