package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/models"
)

func countUsers(t *testing.T, svc *UserService) int {
	t.Helper()
	var n int
	require.NoError(t, svc.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "dan", user.Username)
	require.Empty(t, user.PasswordHash, "registered user must come back sanitized")
	require.False(t, user.Admin)
	require.False(t, user.Verified)
}

func TestUserService_Register_Conflict(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	_, err := svc.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)

	// Same username, different email.
	_, err = svc.Register("dan", "other@example.com", "hunter22")
	require.ErrorIs(t, err, apperr.ErrConflict)

	// Same email, different username.
	_, err = svc.Register("other", "dan@example.com", "hunter22")
	require.ErrorIs(t, err, apperr.ErrConflict)

	require.Equal(t, 1, countUsers(t, svc), "conflicting registration must not write")
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	registered, err := svc.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)

	user, err := svc.Authenticate("dan@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate("dan@example.com", "wrong-password")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Authenticate("nobody@example.com", "hunter22")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	user, err := svc.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)

	// Empty fields keep their current values.
	updated, err := svc.UpdateProfile(user.ID, "daniel", "", "")
	require.NoError(t, err)
	require.Equal(t, "daniel", updated.Username)
	require.Equal(t, "dan@example.com", updated.Email)

	// Password change takes effect.
	_, err = svc.UpdateProfile(user.ID, "", "", "new-password")
	require.NoError(t, err)
	_, err = svc.Authenticate("dan@example.com", "hunter22")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Authenticate("dan@example.com", "new-password")
	require.NoError(t, err)
}

func TestUserService_UpdateProfile_Conflict(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	_, err := svc.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)
	other, err := svc.Register("ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(other.ID, "dan", "", "")
	require.ErrorIs(t, err, apperr.ErrConflict)

	unchanged, err := svc.GetUserByID(other.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", unchanged.Username)
}

func TestUserService_ResetPassword(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))
	_, err := svc.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword("dan@example.com", "reset-password"))

	_, err = svc.Authenticate("dan@example.com", "reset-password")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ResetPassword("nobody@example.com", "x"), apperr.ErrNotFound)
}

func TestUserService_Delete_CascadesAuthoredContent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserService(db)
	posts := NewPostService(db)
	comments := NewCommentService(db)

	author, err := users.Register("dan", "dan@example.com", "hunter22")
	require.NoError(t, err)

	post, err := posts.CreatePost(models.Post{
		Title:       "First post",
		Description: "Hello",
		AuthorID:    author.ID,
		Categories:  []string{"general"},
	})
	require.NoError(t, err)

	_, err = comments.CreateComment(models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Body:     "self comment",
	})
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(author.ID))

	_, err = users.GetUserByID(author.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = posts.GetPostByID(post.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	remaining, err := comments.GetCommentsForPost(post.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)

	require.ErrorIs(t, users.DeleteUser(author.ID), apperr.ErrNotFound)
}
