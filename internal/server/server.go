// Package server exposes the message and photo store over JSON HTTP.
package server

import (
	"net/http"
	"strings"
	"time"

	"greetcard/internal/debug"
	"greetcard/internal/domain"
	"greetcard/internal/store"

	"github.com/gin-gonic/gin"
)

// Server serves the /api routes used by the greeting and by compose.
type Server struct {
	store       store.Store
	defaultText string
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultText overrides the message returned when no id is requested.
func WithDefaultText(text string) Option {
	return func(s *Server) {
		if strings.TrimSpace(text) != "" {
			s.defaultText = text
		}
	}
}

// New returns a server backed by st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:       st,
		defaultText: domain.DefaultMessageText,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(accessLog(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		debug.Logf("http: panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		writeError(c, http.StatusInternalServerError, "internal error")
	}))

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/message", s.handleGetMessage)
	api.GET("/message/:id", s.handleGetMessage)
	api.POST("/message", s.handleCreateMessage)
	api.PUT("/message/:id", s.handleUpdateMessage)
	api.GET("/photos", s.handleListPhotos)
	api.POST("/photos", s.handleAddPhoto)
	api.DELETE("/photos/:id", s.handleDeletePhoto)

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "not found")
	})
	return r
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		debug.Logf("http: %s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(),
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
