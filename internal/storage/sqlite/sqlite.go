// Package sqlite stores the blog in a single SQLite file through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE IF NOT EXISTS "user" (
		"userId" INTEGER PRIMARY KEY AUTOINCREMENT,
		"userName" TEXT NOT NULL,
		"email" TEXT NOT NULL,
		"password" TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS "blogcontent" (
		"blogId" INTEGER PRIMARY KEY AUTOINCREMENT,
		"blogAuthor" INTEGER NOT NULL,
		"blogTopic" TEXT,
		"blogTitle" TEXT,
		"blogContent" TEXT,
		"privacy" BOOLEAN DEFAULT 0,
		"status" BOOLEAN DEFAULT 1,
		"createdOn" TIMESTAMP NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
		"likes" INTEGER NOT NULL DEFAULT 0,
		"dislikes" INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS "blogcomment" (
		"commentId" INTEGER PRIMARY KEY AUTOINCREMENT,
		"blogId" INTEGER NOT NULL,
		"commentContent" TEXT NOT NULL,
		"commentedOn" TIMESTAMP NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
		"status" BOOLEAN NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_blogcontent_author ON "blogcontent"("blogAuthor");
	CREATE INDEX IF NOT EXISTS idx_blogcomment_blog ON "blogcomment"("blogId");
`

type SQLiteStorage struct {
	db *sql.DB
}

// New opens (creating if needed) the database file at path. poolSize bounds
// the number of open connections.
func New(ctx context.Context, path string, poolSize int) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if poolSize > 0 {
		db.SetMaxOpenConns(poolSize)
		db.SetMaxIdleConns(poolSize)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return NewFromDB(db), nil
}

// NewFromDB wraps an open handle whose schema already exists.
func NewFromDB(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) UserExists(ctx context.Context, email, userName string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM "user" WHERE "email" = ? OR "userName" = ?)`,
		email, userName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStorage) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO "user" ("userName", "email", "password") VALUES (?, ?, ?)`,
		user.UserName, user.Email, user.Password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if user.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) FindUserByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT "userId", "userName", "email", "password"
		FROM "user"
		WHERE "email" = ? AND "password" = ?
		ORDER BY "userId"
		LIMIT 1`, email, password).Scan(&u.ID, &u.UserName, &u.Email, &u.Password)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStorage) ListPublicBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b."blogId", b."blogTopic", b."blogTitle", b."createdOn", b."likes", b."dislikes", u."userName"
		FROM "blogcontent" b
		JOIN "user" u ON b."blogAuthor" = u."userId"
		WHERE b."privacy" = 0 AND b."status" = 1
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

func (s *SQLiteStorage) GetActiveBlog(ctx context.Context, blogID int64) (*models.BlogPost, error) {
	var p models.BlogPost
	err := s.db.QueryRowContext(ctx, `
		SELECT b."blogId", b."blogAuthor", b."blogTopic", b."blogTitle", b."blogContent",
			b."privacy", b."status", b."createdOn", b."likes", b."dislikes", u."userName"
		FROM "blogcontent" b
		JOIN "user" u ON b."blogAuthor" = u."userId"
		WHERE b."blogId" = ? AND b."status" = 1`, blogID).Scan(
		&p.ID, &p.AuthorID, &p.Topic, &p.Title, &p.Content,
		&p.Privacy, &p.Status, &p.CreatedOn, &p.Likes, &p.Dislikes, &p.Author)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStorage) CreateBlog(ctx context.Context, post *models.BlogPost) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO "blogcontent" ("blogAuthor", "blogTopic", "blogTitle", "blogContent", "privacy")
		VALUES (?, ?, ?, ?, ?)`,
		post.AuthorID, post.Topic, post.Title, post.Content, post.Privacy)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	if post.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read blog id: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListUserBlogs(ctx context.Context, userID int64) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT "blogId", "blogAuthor", "blogTopic", "blogTitle", "blogContent",
			"privacy", "status", "createdOn", "likes", "dislikes"
		FROM "blogcontent"
		WHERE "blogAuthor" = ? AND "status" = 1
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

func (s *SQLiteStorage) GetBlogAuthor(ctx context.Context, blogID int64) (int64, error) {
	var author int64
	err := s.db.QueryRowContext(ctx, `SELECT "blogAuthor" FROM "blogcontent" WHERE "blogId" = ?`, blogID).Scan(&author)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get blog author: %w", err)
	}
	return author, nil
}

func (s *SQLiteStorage) UpdateBlog(ctx context.Context, blogID int64, update models.BlogUpdate) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE "blogcontent"
		SET "blogTopic" = ?, "blogTitle" = ?, "blogContent" = ?, "privacy" = ?, "status" = ?
		WHERE "blogId" = ?`,
		update.Topic, update.Title, update.Content, update.Privacy, update.Status, blogID)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListComments(ctx context.Context, blogID int64) ([]models.CommentView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT "commentId", "commentContent", "commentedOn"
		FROM "blogcomment"
		WHERE "blogId" = ? AND "status" = 1
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

func (s *SQLiteStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO "blogcomment" ("blogId", "commentContent") VALUES (?, ?)`,
		comment.BlogID, comment.Content)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	if comment.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	comment.Status = true
	return nil
}

func (s *SQLiteStorage) DeactivateComment(ctx context.Context, commentID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE "blogcomment" SET "status" = 0 WHERE "commentId" = ?`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
