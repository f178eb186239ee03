package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/models"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// CommentHandler handles HTTP requests for post comments.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// CommentPayload defines the structure for comment create requests.
type CommentPayload struct {
	Body          string  `json:"body"`
	ParentID      *string `json:"parentId,omitempty"`
	ReplyToUserID *string `json:"replyToUserId,omitempty"`
}

// Validate runs the comment validation rules.
func (p CommentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Body, validation.Required, validation.Length(1, 5000)),
	)
}

// ListForPost handles listing all comments on a post, oldest first.
//
//	@Summary	List comments on a post
//	@Tags		comments
//	@Param		id	path		string	true	"Post ID"
//	@Success	200	{array}		models.Comment
//	@Router		/api/posts/{id}/comments [get]
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.GetCommentsForPost(chi.URLParam(r, "id"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve comments")
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Create handles adding a comment to a post as the authenticated user.
//
//	@Summary	Comment on a post
//	@Tags		comments
//	@Accept		json
//	@Param		id		path		string			true	"Post ID"
//	@Param		comment	body		CommentPayload	true	"Comment data"
//	@Success	201		{object}	models.Comment
//	@Failure	404		{object}	map[string]string	"Unknown post"
//	@Security	BearerAuth
//	@Router		/api/posts/{id}/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.CreateComment(models.Comment{
		PostID:        chi.URLParam(r, "id"),
		AuthorID:      identity.ID,
		Body:          payload.Body,
		ParentID:      payload.ParentID,
		ReplyToUserID: payload.ReplyToUserID,
	})
	if err != nil {
		log.Warn().Err(err).Str("author_id", identity.ID).Msg("Failed to create comment")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Update handles editing a comment owned by the authenticated user.
//
//	@Summary	Edit a comment
//	@Tags		comments
//	@Accept		json
//	@Param		id		path		string			true	"Comment ID"
//	@Param		comment	body		CommentPayload	true	"New body"
//	@Success	200		{object}	models.Comment
//	@Failure	403		{object}	map[string]string	"Not the comment owner"
//	@Security	BearerAuth
//	@Router		/api/comments/{id} [put]
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	existing, err := h.service.GetCommentByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.AuthorID != identity.ID {
		writeError(w, fmt.Errorf("you can only edit your own comment: %w", apperr.ErrForbidden))
		return
	}

	var payload CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.UpdateComment(id, payload.Body)
	if err != nil {
		log.Error().Err(err).Str("comment_id", id).Msg("Failed to update comment")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// Delete handles removing a comment owned by the authenticated user.
//
//	@Summary	Delete a comment
//	@Tags		comments
//	@Param		id	path		string	true	"Comment ID"
//	@Success	200	{object}	map[string]string
//	@Failure	403	{object}	map[string]string	"Not the comment owner"
//	@Security	BearerAuth
//	@Router		/api/comments/{id} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	existing, err := h.service.GetCommentByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.AuthorID != identity.ID {
		writeError(w, fmt.Errorf("you can only delete your own comment: %w", apperr.ErrForbidden))
		return
	}

	if err := h.service.DeleteComment(id); err != nil {
		log.Error().Err(err).Str("comment_id", id).Msg("Failed to delete comment")
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "comment has been deleted")
}
