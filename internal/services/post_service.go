package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/models"
)

// PostFilter narrows post listings. Zero values mean no filtering.
type PostFilter struct {
	Username string // Author's username
	Category string // Category name
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetAllPosts(filter PostFilter) ([]models.Post, error)
	GetPostByID(id string) (models.Post, error)
	CreatePost(post models.Post) (models.Post, error)
	UpdatePost(id string, post models.Post) (models.Post, error)
	DeletePost(id string) error
}

// PostService provides business logic for post management.
type PostService struct {
	db *sql.DB
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

const postColumns = "id, title, slug, description, photo, tags_json, author_id, created_at, updated_at"

func scanPost(scan func(dest ...any) error) (models.Post, error) {
	var post models.Post
	err := scan(&post.ID, &post.Title, &post.Slug, &post.Description, &post.Photo,
		&post.TagsJSON, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return models.Post{}, err
	}
	if err := post.LoadFromDB(); err != nil {
		return models.Post{}, fmt.Errorf("decoding post tags: %w", err)
	}
	return post, nil
}

// GetAllPosts retrieves posts, optionally filtered by author username or
// category name.
func (s *PostService) GetAllPosts(filter PostFilter) ([]models.Post, error) {
	query := "SELECT p.id, p.title, p.slug, p.description, p.photo, p.tags_json, p.author_id, p.created_at, p.updated_at FROM posts p"
	var args []any

	switch {
	case filter.Username != "":
		query += " JOIN users u ON u.id = p.author_id WHERE u.username = ?"
		args = append(args, filter.Username)
	case filter.Category != "":
		query += ` JOIN post_categories pc ON pc.post_id = p.id
			JOIN categories c ON c.id = pc.category_id WHERE c.name = ?`
		args = append(args, filter.Category)
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].Categories, err = s.categoriesForPost(posts[i].ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// GetPostByID retrieves a single post with its category names.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	post, err := scanPost(s.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ?", id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, fmt.Errorf("post: %w", apperr.ErrNotFound)
		}
		return models.Post{}, err
	}
	if post.Categories, err = s.categoriesForPost(id); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// CreatePost creates a new post. Category names are upserted and linked in
// the same transaction; a colliding slug is rejected before any write.
func (s *PostService) CreatePost(post models.Post) (models.Post, error) {
	if err := s.checkSlug(post.Slug, ""); err != nil {
		return models.Post{}, err
	}

	post.ID = uuid.New().String()
	if err := post.PrepareForDB(); err != nil {
		return models.Post{}, fmt.Errorf("encoding post tags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Post{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO posts(id, title, slug, description, photo, tags_json, author_id) VALUES(?, ?, ?, ?, ?, ?, ?)",
		post.ID, post.Title, post.Slug, post.Description, post.Photo, post.TagsJSON, post.AuthorID)
	if err != nil {
		return models.Post{}, fmt.Errorf("inserting post: %w", err)
	}

	if err := linkCategories(tx, post.ID, post.Categories); err != nil {
		return models.Post{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(post.ID)
}

// UpdatePost updates an existing post and relinks its categories. Ownership
// has already been checked by the caller.
func (s *PostService) UpdatePost(id string, post models.Post) (models.Post, error) {
	if _, err := s.GetPostByID(id); err != nil {
		return models.Post{}, err
	}
	if err := s.checkSlug(post.Slug, id); err != nil {
		return models.Post{}, err
	}
	if err := post.PrepareForDB(); err != nil {
		return models.Post{}, fmt.Errorf("encoding post tags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Post{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec("UPDATE posts SET title = ?, slug = ?, description = ?, photo = ?, tags_json = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		post.Title, post.Slug, post.Description, post.Photo, post.TagsJSON, id)
	if err != nil {
		return models.Post{}, fmt.Errorf("updating post: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id); err != nil {
		return models.Post{}, fmt.Errorf("unlinking categories: %w", err)
	}
	if err := linkCategories(tx, id, post.Categories); err != nil {
		return models.Post{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(id)
}

// DeletePost removes a post. Comments and category links cascade.
func (s *PostService) DeletePost(id string) error {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("post: %w", apperr.ErrNotFound)
	}
	return nil
}

func (s *PostService) checkSlug(slug *string, excludeID string) error {
	if slug == nil || *slug == "" {
		return nil
	}
	var taken int
	err := s.db.QueryRow("SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?", *slug, excludeID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("slug taken: %w", apperr.ErrConflict)
	}
	return nil
}

func (s *PostService) categoriesForPost(postID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT c.name FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = ? ORDER BY c.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("querying post categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// linkCategories upserts each category name and links it to the post.
// Reused names resolve to the existing category row.
func linkCategories(tx *sql.Tx, postID string, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		var catID string
		err := tx.QueryRow("SELECT id FROM categories WHERE name = ?", name).Scan(&catID)
		if err == sql.ErrNoRows {
			catID = uuid.New().String()
			if _, err := tx.Exec("INSERT INTO categories(id, name) VALUES(?, ?)", catID, name); err != nil {
				return fmt.Errorf("inserting category %q: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("looking up category %q: %w", name, err)
		}

		_, err = tx.Exec("INSERT OR IGNORE INTO post_categories(post_id, category_id) VALUES(?, ?)", postID, catID)
		if err != nil {
			return fmt.Errorf("linking category %q: %w", name, err)
		}
	}
	return nil
}
