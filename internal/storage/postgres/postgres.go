package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS "user" (
		"userId" BIGSERIAL PRIMARY KEY,
		"userName" TEXT NOT NULL,
		"email" TEXT NOT NULL,
		"password" TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS "blogcontent" (
		"blogId" BIGSERIAL PRIMARY KEY,
		"blogAuthor" BIGINT NOT NULL,
		"blogTopic" TEXT,
		"blogTitle" TEXT,
		"blogContent" TEXT,
		"privacy" BOOLEAN DEFAULT FALSE,
		"status" BOOLEAN DEFAULT TRUE,
		"createdOn" TIMESTAMPTZ NOT NULL DEFAULT now(),
		"likes" INTEGER NOT NULL DEFAULT 0,
		"dislikes" INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS "blogcomment" (
		"commentId" BIGSERIAL PRIMARY KEY,
		"blogId" BIGINT NOT NULL,
		"commentContent" TEXT NOT NULL,
		"commentedOn" TIMESTAMPTZ NOT NULL DEFAULT now(),
		"status" BOOLEAN NOT NULL DEFAULT TRUE
	);
	CREATE INDEX IF NOT EXISTS idx_blogcontent_author ON "blogcontent"("blogAuthor");
	CREATE INDEX IF NOT EXISTS idx_blogcomment_blog ON "blogcomment"("blogId");
`

type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New opens a pool of at most poolSize connections and creates the schema.
// Acquires beyond the bound wait for a free connection.
func New(ctx context.Context, dsn string, poolSize int) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) UserExists(ctx context.Context, email, userName string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM "user" WHERE "email" = $1 OR "userName" = $2)`,
		email, userName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return exists, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO "user" ("userName", "email", "password")
		VALUES ($1, $2, $3)
		RETURNING "userId"`,
		user.UserName, user.Email, user.Password).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStorage) FindUserByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT "userId", "userName", "email", "password"
		FROM "user"
		WHERE "email" = $1 AND "password" = $2
		ORDER BY "userId"
		LIMIT 1`, email, password).Scan(&u.ID, &u.UserName, &u.Email, &u.Password)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStorage) ListPublicBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT b."blogId", b."blogTopic", b."blogTitle", b."createdOn", b."likes", b."dislikes", u."userName"
		FROM "blogcontent" b
		JOIN "user" u ON b."blogAuthor" = u."userId"
		WHERE b."privacy" = FALSE AND b."status" = TRUE
		ORDER BY b."createdOn" DESC, b."blogId" DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]models.BlogSummary, 0)
	for rows.Next() {
		var b models.BlogSummary
		if err := rows.Scan(&b.ID, &b.Topic, &b.Title, &b.CreatedOn, &b.Likes, &b.Dislikes, &b.Author); err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}

	return blogs, rows.Err()
}

func (s *PostgresStorage) GetActiveBlog(ctx context.Context, blogID int64) (*models.BlogPost, error) {
	var p models.BlogPost
	err := s.pool.QueryRow(ctx, `
		SELECT b."blogId", b."blogAuthor", b."blogTopic", b."blogTitle", b."blogContent",
			b."privacy", b."status", b."createdOn", b."likes", b."dislikes", u."userName"
		FROM "blogcontent" b
		JOIN "user" u ON b."blogAuthor" = u."userId"
		WHERE b."blogId" = $1 AND b."status" = TRUE`, blogID).Scan(
		&p.ID, &p.AuthorID, &p.Topic, &p.Title, &p.Content,
		&p.Privacy, &p.Status, &p.CreatedOn, &p.Likes, &p.Dislikes, &p.Author)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return &p, nil
}

func (s *PostgresStorage) CreateBlog(ctx context.Context, post *models.BlogPost) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO "blogcontent" ("blogAuthor", "blogTopic", "blogTitle", "blogContent", "privacy")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING "blogId", "status", "createdOn", "likes", "dislikes"`,
		post.AuthorID, post.Topic, post.Title, post.Content, post.Privacy).Scan(
		&post.ID, &post.Status, &post.CreatedOn, &post.Likes, &post.Dislikes)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListUserBlogs(ctx context.Context, userID int64) ([]models.BlogPost, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT "blogId", "blogAuthor", "blogTopic", "blogTitle", "blogContent",
			"privacy", "status", "createdOn", "likes", "dislikes"
		FROM "blogcontent"
		WHERE "blogAuthor" = $1 AND "status" = TRUE
		ORDER BY "createdOn" DESC, "blogId" DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]models.BlogPost, 0)
	for rows.Next() {
		var p models.BlogPost
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Topic, &p.Title, &p.Content,
			&p.Privacy, &p.Status, &p.CreatedOn, &p.Likes, &p.Dislikes); err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, p)
	}

	return blogs, rows.Err()
}

func (s *PostgresStorage) GetBlogAuthor(ctx context.Context, blogID int64) (int64, error) {
	var author int64
	err := s.pool.QueryRow(ctx, `SELECT "blogAuthor" FROM "blogcontent" WHERE "blogId" = $1`, blogID).Scan(&author)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get blog author: %w", err)
	}
	return author, nil
}

func (s *PostgresStorage) UpdateBlog(ctx context.Context, blogID int64, update models.BlogUpdate) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE "blogcontent"
		SET "blogTopic" = $1, "blogTitle" = $2, "blogContent" = $3, "privacy" = $4, "status" = $5
		WHERE "blogId" = $6`,
		update.Topic, update.Title, update.Content, update.Privacy, update.Status, blogID)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListComments(ctx context.Context, blogID int64) ([]models.CommentView, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT "commentId", "commentContent", "commentedOn"
		FROM "blogcomment"
		WHERE "blogId" = $1 AND "status" = TRUE
		ORDER BY "commentedOn" DESC, "commentId" DESC`, blogID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.CommentView, 0)
	for rows.Next() {
		var c models.CommentView
		if err := rows.Scan(&c.ID, &c.Content, &c.CommentedOn); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (s *PostgresStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO "blogcomment" ("blogId", "commentContent")
		VALUES ($1, $2)
		RETURNING "commentId", "commentedOn", "status"`,
		comment.BlogID, comment.Content).Scan(&comment.ID, &comment.CommentedOn, &comment.Status)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (s *PostgresStorage) DeactivateComment(ctx context.Context, commentID int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE "blogcomment" SET "status" = FALSE WHERE "commentId" = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
