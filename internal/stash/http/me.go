package http

import (
	"net/http"

	"github.com/oakmount/stash/internal/stash/service"
	"github.com/oakmount/stash/pkg/httpx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Get own profile
//	@Tags			Me
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetByID(r.Context(), httpx.UserIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type UpdateProfileHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Update own profile
//	@Tags			Me
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		UpdateProfileRequest	true	"Profile fields"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Router			/v1/me [patch].
func (h *UpdateProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.UserService.UpdateName(r.Context(), httpx.UserIDFromCtx(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type ChangePasswordHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Change own password
//	@Description	Requires the current password. Existing tokens stay valid until they expire.
//	@Tags			Me
//	@Accept			json
//	@Security		BearerAuth
//	@Param			body	body	ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/v1/me/password [put].
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	uid := httpx.UserIDFromCtx(r.Context())
	if err := h.UserService.ChangePassword(r.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type DeactivateHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Delete own account
//	@Description	Soft deletes the account. The email becomes unusable for login immediately and is freed for re-registration once housekeeping purges the row.
//	@Tags			Me
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/v1/me [delete].
func (h *DeactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Deactivate(r.Context(), httpx.UserIDFromCtx(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
