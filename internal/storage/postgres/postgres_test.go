package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPostgresStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:13",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "blogwebsite",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}
	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer postgresC.Terminate(ctx)

	host, err := postgresC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	dsn := "postgres://user:password@" + host + ":" + port.Port() + "/blogwebsite?sslmode=disable"

	store, err := New(ctx, dsn, 10)
	if err != nil {
		t.Fatalf("failed to init PostgresStorage: %v", err)
	}
	defer store.Close()

	require.NoError(t, store.Ping(ctx))
	assert.Equal(t, int32(10), store.pool.Config().MaxConns)

	alice := &models.User{UserName: "alice", Email: "a@x.com", Password: "pw1"}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NotZero(t, alice.ID)

	t.Run("UserExists and FindUserByCredentials", func(t *testing.T) {
		exists, err := store.UserExists(ctx, "a@x.com", "someone")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.UserExists(ctx, "b@x.com", "bob")
		assert.NoError(t, err)
		assert.False(t, exists)

		found, err := store.FindUserByCredentials(ctx, "a@x.com", "pw1")
		assert.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		_, err = store.FindUserByCredentials(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("CreateBlog and GetActiveBlog", func(t *testing.T) {
		post := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("Title"), Content: strPtr(""), Privacy: boolPtr(false)}
		require.NoError(t, store.CreateBlog(ctx, post))
		assert.NotZero(t, post.ID)
		assert.True(t, post.IsActive())

		got, err := store.GetActiveBlog(ctx, post.ID)
		assert.NoError(t, err)
		assert.Equal(t, "alice", got.Author)
		assert.Equal(t, "Title", *got.Title)

		_, err = store.GetActiveBlog(ctx, -1)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListPublicBlogs excludes private and inactive", func(t *testing.T) {
		private := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("private"), Content: strPtr(""), Privacy: boolPtr(true)}
		require.NoError(t, store.CreateBlog(ctx, private))

		hidden := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("hidden"), Content: strPtr(""), Privacy: boolPtr(false)}
		require.NoError(t, store.CreateBlog(ctx, hidden))
		require.NoError(t, store.UpdateBlog(ctx, hidden.ID, models.BlogUpdate{
			Topic: strPtr("T"), Title: strPtr("hidden"), Privacy: boolPtr(false), Status: boolPtr(false),
		}))

		blogs, err := store.ListPublicBlogs(ctx)
		assert.NoError(t, err)
		for i, b := range blogs {
			assert.NotEqual(t, private.ID, b.ID)
			assert.NotEqual(t, hidden.ID, b.ID)
			if i > 0 {
				assert.False(t, b.CreatedOn.After(blogs[i-1].CreatedOn), "expected newest first")
			}
		}

		_, err = store.GetActiveBlog(ctx, hidden.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		author, err := store.GetBlogAuthor(ctx, hidden.ID)
		assert.NoError(t, err)
		assert.Equal(t, alice.ID, author)

		mine, err := store.ListUserBlogs(ctx, alice.ID)
		assert.NoError(t, err)
		for _, b := range mine {
			assert.NotEqual(t, hidden.ID, b.ID)
		}
	})

	t.Run("UpdateBlog writes nulls", func(t *testing.T) {
		post := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("Title"), Content: strPtr("body"), Privacy: boolPtr(false)}
		require.NoError(t, store.CreateBlog(ctx, post))

		require.NoError(t, store.UpdateBlog(ctx, post.ID, models.BlogUpdate{Title: strPtr("Changed"), Status: boolPtr(true)}))

		got, err := store.GetActiveBlog(ctx, post.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Topic)
		assert.Nil(t, got.Content)
		assert.Nil(t, got.Privacy)
		assert.Equal(t, "Changed", *got.Title)
	})

	t.Run("Comments", func(t *testing.T) {
		post := &models.BlogPost{AuthorID: alice.ID, Topic: strPtr("T"), Title: strPtr("Title"), Content: strPtr(""), Privacy: boolPtr(false)}
		require.NoError(t, store.CreateBlog(ctx, post))

		first := &models.Comment{BlogID: post.ID, Content: "first"}
		second := &models.Comment{BlogID: post.ID, Content: "second"}
		require.NoError(t, store.CreateComment(ctx, first))
		require.NoError(t, store.CreateComment(ctx, second))
		assert.True(t, first.Status)

		comments, err := store.ListComments(ctx, post.ID)
		assert.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, second.ID, comments[0].ID)

		require.NoError(t, store.DeactivateComment(ctx, second.ID))
		require.NoError(t, store.DeactivateComment(ctx, 987654))

		comments, err = store.ListComments(ctx, post.ID)
		assert.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, first.ID, comments[0].ID)
	})
}
