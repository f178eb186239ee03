package handlers

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/models"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CategoryPayload defines the structure for category create requests.
type CategoryPayload struct {
	Name string `json:"name"`
}

// Validate runs the category validation rules.
func (p CategoryPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 100)),
	)
}

// Create handles creating a category with a unique name.
//
//	@Summary	Create a category
//	@Tags		categories
//	@Accept		json
//	@Param		category	body		CategoryPayload	true	"Category name"
//	@Success	201			{object}	models.Category
//	@Failure	409			{object}	map[string]string	"Name taken"
//	@Router		/api/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CategoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	cat, err := h.service.CreateCategory(payload.Name)
	if err != nil {
		log.Warn().Err(err).Str("name", payload.Name).Msg("Failed to create category")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// GetAll handles listing all categories.
//
//	@Summary	List categories
//	@Tags		categories
//	@Success	200	{array}	models.Category
//	@Router		/api/categories [get]
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.GetAllCategories()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve categories")
		writeError(w, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}
