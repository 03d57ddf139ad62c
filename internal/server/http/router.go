package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.accessLog(), s.recovery())

	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/", s.status)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", s.signup)
		auth.POST("/login", s.login)
		auth.POST("/logout", s.logout)

		protected := auth.Group("", s.requireSession())
		{
			protected.GET("/me", s.me)
			protected.POST("/notes", s.createNote)
			protected.GET("/notes", s.listNotes)
			protected.GET("/getNotes", s.listOwnerScoped)
			protected.GET("/getAllNotes", s.listBroad)
		}
	}

	return r
}
