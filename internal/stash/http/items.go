package http

import (
	"net/http"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/internal/stash/service"
	"github.com/oakmount/stash/pkg/httpx"
)

type ListItemsHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		List own items
//	@Description	Returns the caller's items, newest first. Items belonging to other users are never included.
//	@Tags			Items
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		ItemResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/v1/items [get].
func (h *ListItemsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.ItemService.List(r.Context(), httpx.UserIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toItemResponses(items))
}

type CreateItemHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		Create an item
//	@Description	The owner is always the authenticated caller; it cannot be set from the body.
//	@Tags			Items
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		CreateItemRequest	true	"Item fields"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Router			/v1/items [post].
func (h *CreateItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.ItemService.Create(r.Context(), httpx.UserIDFromCtx(r.Context()), req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toItemResponse(item))
}

type GetItemHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		Get one item
//	@Description	Responds 404 both when the item does not exist and when it belongs to someone else.
//	@Tags			Items
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Item ID"
//	@Success		200	{object}	ItemResponse
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/items/{id} [get].
func (h *GetItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	item, err := h.ItemService.Get(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

type UpdateItemHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		Update an item
//	@Description	Partial update; absent fields are untouched. Status may be set to active or archived, never deleted.
//	@Tags			Items
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Item ID"
//	@Param			body	body		UpdateItemRequest	true	"Fields to change"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/items/{id} [put].
func (h *UpdateItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := service.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.ItemStatus(*req.Status)
		patch.Status = &status
	}

	item, err := h.ItemService.Update(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toItemResponse(item))
}

type DeleteItemHandler struct {
	ItemService *service.ItemService
}

// ServeHTTP godoc
//
//	@Summary		Delete an item
//	@Description	Soft delete; the item drops out of every read immediately and is purged later by housekeeping.
//	@Tags			Items
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Item ID"
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/items/{id} [delete].
func (h *DeleteItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.ItemService.Delete(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
