package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/models"
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	CreateComment(comment models.Comment) (models.Comment, error)
	GetCommentByID(id string) (models.Comment, error)
	GetCommentsForPost(postID string) ([]models.Comment, error)
	UpdateComment(id, body string) (models.Comment, error)
	DeleteComment(id string) error
}

// CommentService provides business logic for comment management.
type CommentService struct {
	db *sql.DB
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{db: db}
}

const commentColumns = "id, post_id, author_id, body, approved, parent_id, reply_to_user_id, created_at, updated_at"

func scanComment(scan func(dest ...any) error) (models.Comment, error) {
	var c models.Comment
	err := scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.Approved,
		&c.ParentID, &c.ReplyToUserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateComment adds a comment to a post. The post and, when threading, the
// parent comment must exist.
func (s *CommentService) CreateComment(comment models.Comment) (models.Comment, error) {
	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM posts WHERE id = ?", comment.PostID).Scan(&exists); err != nil {
		return models.Comment{}, fmt.Errorf("checking post: %w", err)
	}
	if exists == 0 {
		return models.Comment{}, fmt.Errorf("post: %w", apperr.ErrNotFound)
	}

	if comment.ParentID != nil {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM comments WHERE id = ? AND post_id = ?",
			*comment.ParentID, comment.PostID).Scan(&exists); err != nil {
			return models.Comment{}, fmt.Errorf("checking parent comment: %w", err)
		}
		if exists == 0 {
			return models.Comment{}, fmt.Errorf("parent comment: %w", apperr.ErrNotFound)
		}
	}

	comment.ID = uuid.New().String()
	_, err := s.db.Exec("INSERT INTO comments(id, post_id, author_id, body, parent_id, reply_to_user_id) VALUES(?, ?, ?, ?, ?, ?)",
		comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.ParentID, comment.ReplyToUserID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("inserting comment: %w", err)
	}
	return s.GetCommentByID(comment.ID)
}

// GetCommentByID retrieves a single comment.
func (s *CommentService) GetCommentByID(id string) (models.Comment, error) {
	c, err := scanComment(s.db.QueryRow("SELECT "+commentColumns+" FROM comments WHERE id = ?", id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Comment{}, fmt.Errorf("comment: %w", apperr.ErrNotFound)
		}
		return models.Comment{}, err
	}
	return c, nil
}

// GetCommentsForPost retrieves all comments on a post, oldest first.
func (s *CommentService) GetCommentsForPost(postID string) ([]models.Comment, error) {
	rows, err := s.db.Query("SELECT "+commentColumns+" FROM comments WHERE post_id = ? ORDER BY created_at", postID)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment replaces a comment's body. Ownership has already been
// checked by the caller.
func (s *CommentService) UpdateComment(id, body string) (models.Comment, error) {
	res, err := s.db.Exec("UPDATE comments SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", body, id)
	if err != nil {
		return models.Comment{}, fmt.Errorf("updating comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Comment{}, fmt.Errorf("comment: %w", apperr.ErrNotFound)
	}
	return s.GetCommentByID(id)
}

// DeleteComment removes a comment and, via cascade, its replies.
func (s *CommentService) DeleteComment(id string) error {
	res, err := s.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("comment: %w", apperr.ErrNotFound)
	}
	return nil
}
