package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

const AdminHeader = "X-Admin-Password"

// NewServer creates the gin engine with all routes configured
func NewServer(handler *Handler, adminPassword string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+AdminHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/", handler.GetIndex)
	r.GET("/health", handler.GetHealth)
	r.GET("/feed.xml", handler.GetFeed)

	api := r.Group("/api")
	{
		api.GET("/posts", handler.ListPosts)
		api.GET("/posts/:id", handler.GetPost)
		api.GET("/tags", handler.ListTags)

		admin := api.Group("")
		admin.Use(adminAuth(adminPassword))
		{
			admin.POST("/scrape", handler.CreatePost)
			admin.PATCH("/posts/:id", handler.UpdatePost)
			admin.DELETE("/posts/:id", handler.DeletePost)
		}
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	return r
}
