package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/storage"
)

type MemoryStorage struct {
	users    map[int64]*models.User
	blogs    map[int64]*models.BlogPost
	comments map[int64]*models.Comment

	lastUserID    int64
	lastBlogID    int64
	lastCommentID int64

	now func() time.Time
	mu  sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{
		users:    make(map[int64]*models.User),
		blogs:    make(map[int64]*models.BlogPost),
		comments: make(map[int64]*models.Comment),
		now:      time.Now,
	}
}

func (s *MemoryStorage) UserExists(ctx context.Context, email, userName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email || u.UserName == userName {
			return true, nil
		}
	}

	return false, nil
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUserID++
	user.ID = s.lastUserID

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStorage) FindUserByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range sortedKeys(s.users) {
		u := s.users[id]
		if u.Email == email && u.Password == password {
			found := *u
			return &found, nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *MemoryStorage) ListPublicBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.BlogSummary, 0)
	for _, post := range s.newestFirst(func(p *models.BlogPost) bool { return p.IsPublic() && p.IsActive() }) {
		author, ok := s.users[post.AuthorID]
		if !ok {
			continue
		}

		result = append(result, models.BlogSummary{
			ID:        post.ID,
			Topic:     post.Topic,
			Title:     post.Title,
			CreatedOn: post.CreatedOn,
			Likes:     post.Likes,
			Dislikes:  post.Dislikes,
			Author:    author.UserName,
		})
	}

	return result, nil
}

func (s *MemoryStorage) GetActiveBlog(ctx context.Context, blogID int64) (*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.blogs[blogID]
	if !exists || !post.IsActive() {
		return nil, storage.ErrNotFound
	}

	author, ok := s.users[post.AuthorID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	found := *post
	found.Author = author.UserName
	return &found, nil
}

func (s *MemoryStorage) CreateBlog(ctx context.Context, post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastBlogID++
	post.ID = s.lastBlogID
	post.CreatedOn = s.now()
	if post.Privacy == nil {
		post.Privacy = boolPtr(false)
	}
	if post.Status == nil {
		post.Status = boolPtr(true)
	}

	stored := *post
	stored.Author = ""
	s.blogs[post.ID] = &stored
	return nil
}

func (s *MemoryStorage) ListUserBlogs(ctx context.Context, userID int64) ([]models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.BlogPost, 0)
	for _, post := range s.newestFirst(func(p *models.BlogPost) bool { return p.AuthorID == userID && p.IsActive() }) {
		result = append(result, *post)
	}

	return result, nil
}

func (s *MemoryStorage) GetBlogAuthor(ctx context.Context, blogID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.blogs[blogID]
	if !exists {
		return 0, storage.ErrNotFound
	}

	return post.AuthorID, nil
}

func (s *MemoryStorage) UpdateBlog(ctx context.Context, blogID int64, update models.BlogUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.blogs[blogID]
	if !exists {
		return nil
	}

	post.Topic = update.Topic
	post.Title = update.Title
	post.Content = update.Content
	post.Privacy = update.Privacy
	post.Status = update.Status
	return nil
}

func (s *MemoryStorage) ListComments(ctx context.Context, blogID int64) ([]models.CommentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []*models.Comment
	for _, c := range s.comments {
		if c.BlogID == blogID && c.Status {
			filtered = append(filtered, c)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CommentedOn.Equal(filtered[j].CommentedOn) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CommentedOn.After(filtered[j].CommentedOn)
	})

	result := make([]models.CommentView, len(filtered))
	for i, c := range filtered {
		result[i] = models.CommentView{ID: c.ID, Content: c.Content, CommentedOn: c.CommentedOn}
	}

	return result, nil
}

func (s *MemoryStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCommentID++
	comment.ID = s.lastCommentID
	comment.CommentedOn = s.now()
	comment.Status = true

	stored := *comment
	s.comments[comment.ID] = &stored
	return nil
}

func (s *MemoryStorage) DeactivateComment(ctx context.Context, commentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, exists := s.comments[commentID]; exists {
		c.Status = false
	}

	return nil
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops every record.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*models.User)
	s.blogs = make(map[int64]*models.BlogPost)
	s.comments = make(map[int64]*models.Comment)
	return nil
}

// newestFirst must be called with the lock held.
func (s *MemoryStorage) newestFirst(keep func(*models.BlogPost) bool) []*models.BlogPost {
	var posts []*models.BlogPost
	for _, p := range s.blogs {
		if keep(p) {
			posts = append(posts, p)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedOn.Equal(posts[j].CreatedOn) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedOn.After(posts[j].CreatedOn)
	})

	return posts
}

func sortedKeys(users map[int64]*models.User) []int64 {
	keys := make([]int64, 0, len(users))
	for id := range users {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func boolPtr(b bool) *bool {
	return &b
}
