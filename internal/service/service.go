package service

import (
	"context"
	"errors"
	"reflect"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/storage"
	"github.com/go-playground/validator/v10"
)

// Service implements the blog operations on top of a Storage. Identity is
// whatever the client asserts; nothing here verifies it.
type Service struct {
	storage  storage.Storage
	validate *validator.Validate
}

func New(storage storage.Storage) *Service {
	return &Service{storage: storage, validate: newValidator()}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// "required" on a LooseID means truthy.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		id, ok := field.Interface().(models.LooseID)
		if !ok || !id.Present() {
			return ""
		}
		return id.String()
	}, models.LooseID{})

	return v
}

type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateBlogRequest struct {
	BlogAuthor  models.LooseID    `json:"blogAuthor" validate:"required"`
	BlogTopic   string            `json:"blogTopic" validate:"required"`
	BlogTitle   string            `json:"blogTitle" validate:"required"`
	BlogContent string            `json:"blogContent"`
	Privacy     *models.LooseBool `json:"privacy"`
}

// UpdateBlogRequest replaces every writable column; omitted fields become NULL.
type UpdateBlogRequest struct {
	BlogAuthor  models.LooseID    `json:"blogAuthor" validate:"required"`
	BlogTopic   *string           `json:"blogTopic"`
	BlogTitle   *string           `json:"blogTitle"`
	BlogContent *string           `json:"blogContent"`
	Privacy     *models.LooseBool `json:"privacy"`
	Status      *models.LooseBool `json:"status"`
}

type AddCommentRequest struct {
	BlogID         models.LooseID `json:"blogId" validate:"required"`
	CommentContent string         `json:"commentContent" validate:"required"`
}

// Signup checks that neither the email nor the user name is taken, then
// stores the user. The check and the insert are separate round trips.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newError(KindValidation, MsgSignupFieldsRequired)
	}

	exists, err := s.storage.UserExists(ctx, req.Email, req.Username)
	if err != nil {
		return nil, storeError(MsgAuthDatabase, err)
	}
	if exists {
		return nil, newError(KindConflict, MsgUserExists)
	}

	user := &models.User{UserName: req.Username, Email: req.Email, Password: req.Password}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, storeError(MsgAuthDatabase, err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newError(KindValidation, MsgLoginFieldsRequired)
	}

	user, err := s.storage.FindUserByCredentials(ctx, req.Email, req.Password)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newError(KindAuth, MsgInvalidCredentials)
	}
	if err != nil {
		return nil, storeError(MsgAuthDatabase, err)
	}

	return user, nil
}

func (s *Service) ListPublicBlogs(ctx context.Context) ([]models.BlogSummary, error) {
	blogs, err := s.storage.ListPublicBlogs(ctx)
	if err != nil {
		return nil, storeError(MsgFetchBlogs, err)
	}
	return blogs, nil
}

// GetBlog returns an active post. Private posts are only returned when caller
// names the post's author.
func (s *Service) GetBlog(ctx context.Context, blogID, caller models.LooseID) (*models.BlogPost, error) {
	id, ok := blogID.Int64()
	if !ok {
		return nil, newError(KindNotFound, MsgBlogNotFound)
	}

	post, err := s.storage.GetActiveBlog(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newError(KindNotFound, MsgBlogNotFound)
	}
	if err != nil {
		return nil, storeError(MsgFetchBlog, err)
	}

	if post.IsPrivate() && !caller.Equals(post.AuthorID) {
		return nil, newError(KindForbidden, MsgBlogForbidden)
	}

	return post, nil
}

func (s *Service) CreateBlog(ctx context.Context, req CreateBlogRequest) (*models.BlogPost, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newError(KindValidation, MsgBlogFieldsReq)
	}

	author, ok := req.BlogAuthor.Int64()
	if !ok {
		return nil, newError(KindValidation, MsgBlogFieldsReq)
	}

	privacy := req.Privacy != nil && bool(*req.Privacy)
	content := req.BlogContent
	topic, title := req.BlogTopic, req.BlogTitle

	post := &models.BlogPost{
		AuthorID: author,
		Topic:    &topic,
		Title:    &title,
		Content:  &content,
		Privacy:  &privacy,
	}
	if err := s.storage.CreateBlog(ctx, post); err != nil {
		return nil, storeError(MsgCreateBlog, err)
	}

	return post, nil
}

func (s *Service) ListUserBlogs(ctx context.Context, userID models.LooseID) ([]models.BlogPost, error) {
	id, ok := userID.Int64()
	if !ok {
		return []models.BlogPost{}, nil
	}

	blogs, err := s.storage.ListUserBlogs(ctx, id)
	if err != nil {
		return nil, storeError(MsgFetchUserBlogs, err)
	}
	return blogs, nil
}

// UpdateBlog checks ownership and then overwrites the post. The two steps
// are not atomic.
func (s *Service) UpdateBlog(ctx context.Context, blogID models.LooseID, req UpdateBlogRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return newError(KindValidation, MsgAuthorRequired)
	}

	id, ok := blogID.Int64()
	if !ok {
		return newError(KindNotFound, MsgBlogNotFound)
	}

	author, err := s.storage.GetBlogAuthor(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return newError(KindNotFound, MsgBlogNotFound)
	}
	if err != nil {
		return storeError(MsgUpdateBlog, err)
	}

	if !req.BlogAuthor.Equals(author) {
		return newError(KindForbidden, MsgNotAuthorized)
	}

	err = s.storage.UpdateBlog(ctx, id, models.BlogUpdate{
		Topic:   req.BlogTopic,
		Title:   req.BlogTitle,
		Content: req.BlogContent,
		Privacy: req.Privacy.Ptr(),
		Status:  req.Status.Ptr(),
	})
	if err != nil {
		return storeError(MsgUpdateBlog, err)
	}

	return nil
}

func (s *Service) ListComments(ctx context.Context, blogID models.LooseID) ([]models.CommentView, error) {
	id, ok := blogID.Int64()
	if !ok {
		return []models.CommentView{}, nil
	}

	comments, err := s.storage.ListComments(ctx, id)
	if err != nil {
		return nil, storeError(MsgFetchComments, err)
	}
	return comments, nil
}

func (s *Service) AddComment(ctx context.Context, req AddCommentRequest) (*models.Comment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newError(KindValidation, MsgCommentFieldReq)
	}

	blogID, ok := req.BlogID.Int64()
	if !ok {
		return nil, newError(KindValidation, MsgCommentFieldReq)
	}

	comment := &models.Comment{BlogID: blogID, Content: req.CommentContent}
	if err := s.storage.CreateComment(ctx, comment); err != nil {
		return nil, storeError(MsgAddComment, err)
	}

	return comment, nil
}

// DeleteComment soft-deletes the comment. Unknown ids succeed the same way.
func (s *Service) DeleteComment(ctx context.Context, commentID models.LooseID) error {
	id, ok := commentID.Int64()
	if !ok {
		return nil
	}

	if err := s.storage.DeactivateComment(ctx, id); err != nil {
		return storeError(MsgDeleteComment, err)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}
