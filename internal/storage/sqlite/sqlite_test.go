package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "blog.db"), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Ping(ctx))
	assert.Equal(t, 10, store.db.Stats().MaxOpenConnections)

	alice := &models.User{UserName: "alice", Email: "a@x.com", Password: "pw1"}
	require.NoError(t, store.CreateUser(ctx, alice))
	bob := &models.User{UserName: "bob", Email: "b@x.com", Password: "pw2"}
	require.NoError(t, store.CreateUser(ctx, bob))

	t.Run("users", func(t *testing.T) {
		exists, err := store.UserExists(ctx, "nobody@x.com", "alice")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.UserExists(ctx, "nobody@x.com", "nobody")
		assert.NoError(t, err)
		assert.False(t, exists)

		found, err := store.FindUserByCredentials(ctx, "b@x.com", "pw2")
		assert.NoError(t, err)
		assert.Equal(t, bob.ID, found.ID)
		assert.Equal(t, "bob", found.UserName)

		_, err = store.FindUserByCredentials(ctx, "b@x.com", "pw1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	public := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("public"), Content: strPtr(""), Privacy: boolPtr(false)}
	private := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("private"), Content: strPtr(""), Privacy: boolPtr(true)}
	later := &models.BlogPost{AuthorID: bob.ID, Topic: strPtr("T"), Title: strPtr("later"), Content: strPtr("x"), Privacy: boolPtr(false)}
	for _, p := range []*models.BlogPost{public, private, later} {
		require.NoError(t, store.CreateBlog(ctx, p))
		require.NotZero(t, p.ID)
	}

	t.Run("ListPublicBlogs", func(t *testing.T) {
		blogs, err := store.ListPublicBlogs(ctx)
		assert.NoError(t, err)
		require.Len(t, blogs, 2)
		assert.Equal(t, later.ID, blogs[0].ID)
		assert.Equal(t, "bob", blogs[0].Author)
		assert.Equal(t, public.ID, blogs[1].ID)
		assert.False(t, blogs[0].CreatedOn.IsZero())
	})

	t.Run("GetActiveBlog", func(t *testing.T) {
		got, err := store.GetActiveBlog(ctx, private.ID)
		assert.NoError(t, err)
		assert.True(t, got.IsPrivate())
		assert.True(t, got.IsActive())
		assert.Equal(t, alice.ID, got.AuthorID)
		assert.Equal(t, "alice", got.Author)

		_, err = store.GetActiveBlog(ctx, 4242)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListUserBlogs", func(t *testing.T) {
		blogs, err := store.ListUserBlogs(ctx, alice.ID)
		assert.NoError(t, err)
		require.Len(t, blogs, 2)
		assert.Equal(t, private.ID, blogs[0].ID)

		blogs, err = store.ListUserBlogs(ctx, 999)
		assert.NoError(t, err)
		assert.NotNil(t, blogs)
		assert.Empty(t, blogs)
	})

	t.Run("UpdateBlog overwrites every field", func(t *testing.T) {
		require.NoError(t, store.UpdateBlog(ctx, public.ID, models.BlogUpdate{Title: strPtr("renamed"), Status: boolPtr(true)}))

		got, err := store.GetActiveBlog(ctx, public.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", *got.Title)
		assert.Nil(t, got.Topic)
		assert.Nil(t, got.Content)
		assert.Nil(t, got.Privacy)

		blogs, err := store.ListPublicBlogs(ctx)
		assert.NoError(t, err)
		for _, b := range blogs {
			assert.NotEqual(t, public.ID, b.ID, "NULL privacy is not public")
		}

		require.NoError(t, store.UpdateBlog(ctx, public.ID, models.BlogUpdate{}))
		_, err = store.GetActiveBlog(ctx, public.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		author, err := store.GetBlogAuthor(ctx, public.ID)
		assert.NoError(t, err)
		assert.Equal(t, alice.ID, author)

		_, err = store.GetBlogAuthor(ctx, 4242)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("inactive posts are hidden", func(t *testing.T) {
		require.NoError(t, store.UpdateBlog(ctx, private.ID, models.BlogUpdate{
			Topic:   strPtr("T"),
			Title:   strPtr("private"),
			Privacy: boolPtr(true),
			Status:  boolPtr(false),
		}))

		_, err := store.GetActiveBlog(ctx, private.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		blogs, err := store.ListUserBlogs(ctx, alice.ID)
		assert.NoError(t, err)
		assert.Empty(t, blogs)

		blogs, err = store.ListUserBlogs(ctx, bob.ID)
		assert.NoError(t, err)
		require.Len(t, blogs, 1)
		assert.Equal(t, later.ID, blogs[0].ID)
	})

	t.Run("comments", func(t *testing.T) {
		first := &models.Comment{BlogID: later.ID, Content: "first"}
		second := &models.Comment{BlogID: later.ID, Content: "second"}
		require.NoError(t, store.CreateComment(ctx, first))
		require.NoError(t, store.CreateComment(ctx, second))

		comments, err := store.ListComments(ctx, later.ID)
		assert.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, second.ID, comments[0].ID)
		assert.Equal(t, "first", comments[1].Content)

		require.NoError(t, store.DeactivateComment(ctx, first.ID))
		require.NoError(t, store.DeactivateComment(ctx, 31337))

		comments, err = store.ListComments(ctx, later.ID)
		assert.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, second.ID, comments[0].ID)
	})
}

func TestSQLiteStorageDriverErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewFromDB(db)

	t.Run("UserExists", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
			WithArgs("a@x.com", "alice").
			WillReturnError(boom)

		_, err := store.UserExists(ctx, "a@x.com", "alice")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("CreateUser", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "user"`)).
			WithArgs("alice", "a@x.com", "pw").
			WillReturnResult(sqlmock.NewResult(5, 1))

		user := &models.User{UserName: "alice", Email: "a@x.com", Password: "pw"}
		assert.NoError(t, store.CreateUser(ctx, user))
		assert.Equal(t, int64(5), user.ID)
	})

	t.Run("ListPublicBlogs", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM "blogcontent" b`)).WillReturnError(boom)

		_, err := store.ListPublicBlogs(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to list blogs")
	})

	t.Run("GetBlogAuthor", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "blogAuthor" FROM "blogcontent"`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"blogAuthor"}))

		_, err := store.GetBlogAuthor(ctx, 3)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateBlog", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "blogcontent"`)).
			WithArgs(nil, "Title", nil, nil, nil, int64(3)).
			WillReturnError(boom)

		err := store.UpdateBlog(ctx, 3, models.BlogUpdate{Title: strPtr("Title")})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("DeactivateComment", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "blogcomment" SET "status" = 0`)).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, store.DeactivateComment(ctx, 9))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
