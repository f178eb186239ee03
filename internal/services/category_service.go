package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/models"
)

// CategoryServiceProvider defines the interface for category services.
type CategoryServiceProvider interface {
	CreateCategory(name string) (models.Category, error)
	GetAllCategories() ([]models.Category, error)
}

// CategoryService provides business logic for category management.
type CategoryService struct {
	db *sql.DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CreateCategory creates a category with a unique name.
func (s *CategoryService) CreateCategory(name string) (models.Category, error) {
	var existing int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM categories WHERE name = ?", name).Scan(&existing); err != nil {
		return models.Category{}, fmt.Errorf("checking existing category: %w", err)
	}
	if existing > 0 {
		return models.Category{}, fmt.Errorf("category name taken: %w", apperr.ErrConflict)
	}

	cat := models.Category{ID: uuid.New().String(), Name: name}
	if _, err := s.db.Exec("INSERT INTO categories(id, name) VALUES(?, ?)", cat.ID, cat.Name); err != nil {
		return models.Category{}, fmt.Errorf("inserting category: %w", err)
	}

	err := s.db.QueryRow("SELECT created_at FROM categories WHERE id = ?", cat.ID).Scan(&cat.CreatedAt)
	if err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// GetAllCategories retrieves all categories ordered by name.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}
