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

// PostHandler handles HTTP requests for blog posts. Reads are public;
// mutations require authentication and post ownership.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload defines the structure for post create and update requests.
type PostPayload struct {
	Title       string   `json:"title"`
	Slug        *string  `json:"slug,omitempty"`
	Description string   `json:"description"`
	Photo       *string  `json:"photo,omitempty"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags,omitempty"`
}

// Validate runs the post validation rules.
func (p PostPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required),
	)
}

// GetAll handles listing posts, optionally filtered by author username
// (?user=) or category name (?cat=).
//
//	@Summary	List posts
//	@Tags		posts
//	@Param		user	query		string	false	"Filter by author username"
//	@Param		cat		query		string	false	"Filter by category name"
//	@Success	200		{array}		models.Post
//	@Router		/api/posts [get]
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	filter := services.PostFilter{
		Username: r.URL.Query().Get("user"),
		Category: r.URL.Query().Get("cat"),
	}

	posts, err := h.service.GetAllPosts(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get handles retrieving a single post by its ID.
//
//	@Summary	Get a post
//	@Tags		posts
//	@Param		id	path		string	true	"Post ID"
//	@Success	200	{object}	models.Post
//	@Failure	404	{object}	map[string]string
//	@Router		/api/posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles creating a new post authored by the authenticated user.
// Category names are upserted on write.
//
//	@Summary	Create a post
//	@Tags		posts
//	@Accept		json
//	@Param		post	body		PostPayload	true	"Post data"
//	@Success	201		{object}	models.Post
//	@Failure	409		{object}	map[string]string	"Slug taken"
//	@Security	BearerAuth
//	@Router		/api/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.CreatePost(models.Post{
		Title:       payload.Title,
		Slug:        payload.Slug,
		Description: payload.Description,
		Photo:       payload.Photo,
		Categories:  payload.Categories,
		Tags:        payload.Tags,
		AuthorID:    identity.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("author_id", identity.ID).Msg("Failed to create post")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update handles updating a post owned by the authenticated user.
//
//	@Summary	Update a post
//	@Tags		posts
//	@Accept		json
//	@Param		id		path		string		true	"Post ID"
//	@Param		post	body		PostPayload	true	"Post data"
//	@Success	200		{object}	models.Post
//	@Failure	403		{object}	map[string]string	"Not the post owner"
//	@Security	BearerAuth
//	@Router		/api/posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	existing, err := h.service.GetPostByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.AuthorID != identity.ID {
		writeError(w, fmt.Errorf("you can only update your own post: %w", apperr.ErrForbidden))
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.UpdatePost(id, models.Post{
		Title:       payload.Title,
		Slug:        payload.Slug,
		Description: payload.Description,
		Photo:       payload.Photo,
		Categories:  payload.Categories,
		Tags:        payload.Tags,
	})
	if err != nil {
		log.Error().Err(err).Str("post_id", id).Msg("Failed to update post")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post owned by the authenticated user.
//
//	@Summary	Delete a post
//	@Tags		posts
//	@Param		id	path		string	true	"Post ID"
//	@Success	200	{object}	map[string]string
//	@Failure	403	{object}	map[string]string	"Not the post owner"
//	@Security	BearerAuth
//	@Router		/api/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	existing, err := h.service.GetPostByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.AuthorID != identity.ID {
		writeError(w, fmt.Errorf("you can only delete your own post: %w", apperr.ErrForbidden))
		return
	}

	if err := h.service.DeletePost(id); err != nil {
		log.Error().Err(err).Str("post_id", id).Msg("Failed to delete post")
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "post has been deleted")
}
