package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()

	r.Use(requestID(), accessLog(), s.metrics.middleware())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic while serving request",
			"request_id", requestIDFrom(c),
			"path", c.Request.URL.Path,
			"panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.POST("/signup", s.signup)
		api.POST("/login", s.login)

		api.GET("/blogs", s.listPublicBlogs)
		api.GET("/blogs/:id", s.getBlog)
		api.POST("/blogs", s.createBlog)
		api.GET("/blogs/user/:userId", s.listUserBlogs)
		api.PUT("/blogs/:id", s.updateBlog)

		api.GET("/comments/:blogId", s.listComments)
		api.POST("/comments", s.addComment)
		api.DELETE("/comments/:commentId", s.deleteComment)
	}

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	return r
}
