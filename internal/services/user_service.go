package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	Register(username, email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	UpdateProfile(id, username, email, password string) (models.User, error)
	ResetPassword(email, password string) error
	DeleteUser(id string) error
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, email, password_hash, profile_pic, verified, admin, created_at, updated_at"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.ProfilePic, &user.Verified, &user.Admin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user: %w", apperr.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("scanning user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID, password hash stripped.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	user, err := scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return models.User{}, err
	}
	user.Sanitize()
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash. For internal use by authentication and password reset.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	return scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// Register creates a new user with a hashed password. A username or email
// that collides with an existing record is rejected before any write.
func (s *UserService) Register(username, email, password string) (models.User, error) {
	var existing int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ? OR email = ?", username, email).Scan(&existing)
	if err != nil {
		return models.User{}, fmt.Errorf("checking existing user: %w", err)
	}
	if existing > 0 {
		return models.User{}, fmt.Errorf("username or email taken: %w", apperr.ErrConflict)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	_, err = s.db.Exec("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return models.User{}, fmt.Errorf("inserting user: %w", err)
	}

	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthorized)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthorized)
	}

	user.Sanitize()
	return user, nil
}

// UpdateProfile updates a user's username, email, and optionally password.
// Empty fields keep their current value.
func (s *UserService) UpdateProfile(id, username, email, password string) (models.User, error) {
	current, err := scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return models.User{}, err
	}

	if username == "" {
		username = current.Username
	}
	if email == "" {
		email = current.Email
	}

	var taken int
	err = s.db.QueryRow("SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id != ?",
		username, email, id).Scan(&taken)
	if err != nil {
		return models.User{}, fmt.Errorf("checking existing user: %w", err)
	}
	if taken > 0 {
		return models.User{}, fmt.Errorf("username or email taken: %w", apperr.ErrConflict)
	}

	hash := current.PasswordHash
	if password != "" {
		if hash, err = auth.HashPassword(password); err != nil {
			return models.User{}, fmt.Errorf("hashing password: %w", err)
		}
	}

	_, err = s.db.Exec("UPDATE users SET username = ?, email = ?, password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		username, email, hash, id)
	if err != nil {
		return models.User{}, fmt.Errorf("updating user: %w", err)
	}
	return s.GetUserByID(id)
}

// ResetPassword replaces the password of the account behind email. Used by
// the password reset flow after the reset token has been verified.
func (s *UserService) ResetPassword(email, password string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hash, user.ID)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// DeleteUser removes a user. Authored posts and comments cascade at the
// database level.
func (s *UserService) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user: %w", apperr.ErrNotFound)
	}
	return nil
}
