package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/ButyrinIA/blogbackend/internal/models"
	"github.com/ButyrinIA/blogbackend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindJSON decodes the request body into dst. An empty body leaves dst at its
// zero value so the service reports the missing fields itself.
func bindJSON(c *gin.Context, dst any) bool {
	data, err := c.GetRawData()
	if err != nil {
		return true
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return true
	}
	return binding.JSON.BindBody(data, dst) == nil
}

func invalid(message string) error {
	return &service.Error{Kind: service.KindValidation, Message: message}
}

func (s *Server) signup(c *gin.Context) {
	var req service.SignupRequest
	if !bindJSON(c, &req) {
		s.fail(c, invalid(service.MsgSignupFieldsRequired), true)
		return
	}

	if _, err := s.service.Signup(c.Request.Context(), req); err != nil {
		s.fail(c, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": service.MsgSignupOK})
}

func (s *Server) login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		s.fail(c, invalid(service.MsgLoginFieldsRequired), true)
		return
	}

	user, err := s.service.Login(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (s *Server) listPublicBlogs(c *gin.Context) {
	blogs, err := s.service.ListPublicBlogs(c.Request.Context())
	if err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

func (s *Server) getBlog(c *gin.Context) {
	var caller models.LooseID
	if userID, ok := c.GetQuery("userId"); ok {
		caller = models.LooseIDFromString(userID)
	}

	blog, err := s.service.GetBlog(c.Request.Context(), models.LooseIDFromString(c.Param("id")), caller)
	if err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, blog)
}

func (s *Server) createBlog(c *gin.Context) {
	var req service.CreateBlogRequest
	if !bindJSON(c, &req) {
		s.fail(c, invalid(service.MsgBlogFieldsReq), false)
		return
	}

	if _, err := s.service.CreateBlog(c.Request.Context(), req); err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": service.MsgBlogCreated})
}

func (s *Server) listUserBlogs(c *gin.Context) {
	blogs, err := s.service.ListUserBlogs(c.Request.Context(), models.LooseIDFromString(c.Param("userId")))
	if err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

func (s *Server) updateBlog(c *gin.Context) {
	var req service.UpdateBlogRequest
	if !bindJSON(c, &req) {
		s.fail(c, invalid(service.MsgAuthorRequired), false)
		return
	}

	if err := s.service.UpdateBlog(c.Request.Context(), models.LooseIDFromString(c.Param("id")), req); err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": service.MsgBlogUpdated})
}

func (s *Server) listComments(c *gin.Context) {
	comments, err := s.service.ListComments(c.Request.Context(), models.LooseIDFromString(c.Param("blogId")))
	if err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (s *Server) addComment(c *gin.Context) {
	var req service.AddCommentRequest
	if !bindJSON(c, &req) {
		s.fail(c, invalid(service.MsgCommentFieldReq), false)
		return
	}

	if _, err := s.service.AddComment(c.Request.Context(), req); err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": service.MsgCommentAdded})
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.service.DeleteComment(c.Request.Context(), models.LooseIDFromString(c.Param("commentId"))); err != nil {
		s.fail(c, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": service.MsgCommentDeleted})
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.Ping(ctx); err != nil {
		requestLogger(c).Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
