package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"authlander/pkg/platform/httputil"
)

func (h *Handler) handleUserDescribe(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.auth.DescribeUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !user.Active {
		httputil.WriteJSON(w, http.StatusOK, UserDescribeResponse{Active: false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UserDescribeResponse{
		Active:  true,
		Name:    user.Name,
		Email:   &user.Email,
		Picture: user.Picture,
	})
}

func (h *Handler) handleUserScopes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.auth.DescribeUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !user.Active {
		httputil.WriteJSON(w, http.StatusOK, UserScopesResponse{Scopes: []string{}, IsActive: false})
		return
	}

	scopes, err := h.auth.ScopesOf(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if scopes == nil {
		scopes = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, UserScopesResponse{Scopes: scopes, IsActive: true})
}

func (h *Handler) handleUserExists(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	exists, err := h.auth.UserExists(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UserExistsResponse{Exists: exists})
}

func (h *Handler) handleUserList(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, UserListResponse{Users: summaries})
}
