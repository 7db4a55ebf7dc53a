package storage

import (
	"context"
	"errors"

	"github.com/ButyrinIA/blogbackend/internal/models"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

type Storage interface {
	// UserExists reports whether any user has the email or the user name.
	UserExists(ctx context.Context, email, userName string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByCredentials(ctx context.Context, email, password string) (*models.User, error)

	ListPublicBlogs(ctx context.Context) ([]models.BlogSummary, error)
	// GetActiveBlog returns the active post joined with its author name.
	GetActiveBlog(ctx context.Context, blogID int64) (*models.BlogPost, error)
	CreateBlog(ctx context.Context, post *models.BlogPost) error
	ListUserBlogs(ctx context.Context, userID int64) ([]models.BlogPost, error)
	// GetBlogAuthor looks at the post regardless of its status.
	GetBlogAuthor(ctx context.Context, blogID int64) (int64, error)
	UpdateBlog(ctx context.Context, blogID int64, update models.BlogUpdate) error

	ListComments(ctx context.Context, blogID int64) ([]models.CommentView, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeactivateComment(ctx context.Context, commentID int64) error

	Ping(ctx context.Context) error
	Close() error
}
