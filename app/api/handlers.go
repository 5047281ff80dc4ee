package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/link-digest/app/database"
	"github.com/lysyi3m/link-digest/app/posts"
)

const feedSize = 50

func NewHandler(service PostService, generator GeneratorInterface, version string) *Handler {
	return &Handler{
		service:   service,
		generator: generator,
		version:   version,
	}
}

func (h *Handler) GetIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Link Digest",
		"version": h.version,
		"endpoints": gin.H{
			"posts":  "/api/posts?page=<n>&tag=<tag>&search=<text>",
			"post":   "/api/posts/<id>",
			"tags":   "/api/tags",
			"feed":   "/feed.xml",
			"health": "/health",
			"scrape": "/api/scrape (POST, requires " + AdminHeader + " header)",
			"edit":   "/api/posts/<id> (PATCH/DELETE, requires " + AdminHeader + " header)",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if count, err := h.service.Count(c.Request.Context()); err == nil {
		health["posts"] = count
	} else {
		slog.Error("Database error", "operation", "count_posts", "error", err)
		health["database"] = "unavailable"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}

	result, err := h.service.List(c.Request.Context(), page, c.Query("tag"), c.Query("search"))
	if err != nil {
		h.writeError(c, "list_posts", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get_post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		h.writeError(c, "list_tags", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *Handler) GetFeed(c *gin.Context) {
	latest, err := h.service.Latest(c.Request.Context(), feedSize)
	if err != nil {
		slog.Error("Database error", "operation", "latest_posts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(latest)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(latest)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid URL", Code: posts.ErrCodeInvalidURL})
		return
	}

	post, err := h.service.Create(c.Request.Context(), req.URL)
	if err != nil {
		h.writeError(c, "create_post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body", Code: posts.ErrCodeInvalidInput})
		return
	}

	post, err := h.service.Update(c.Request.Context(), c.Param("id"), database.PostUpdate{
		Title:    req.Title,
		Summary:  req.Summary,
		Keywords: req.Keywords,
	})
	if err != nil {
		h.writeError(c, "update_post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "delete_post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) writeError(c *gin.Context, operation string, err error) {
	var pipelineErr *posts.Error
	if !errors.As(err, &pipelineErr) {
		slog.Error("Unexpected error", "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Something went wrong"})
		return
	}

	status := statusFor(pipelineErr.Code)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "operation", operation, "code", pipelineErr.Code, "error", err)
	} else {
		slog.Debug("Request rejected", "operation", operation, "code", pipelineErr.Code, "error", err)
	}

	c.JSON(status, errorResponse{Error: pipelineErr.Message, Code: pipelineErr.Code})
}

func statusFor(code string) int {
	switch code {
	case posts.ErrCodeInvalidURL, posts.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case posts.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case posts.ErrCodeNotFound:
		return http.StatusNotFound
	case posts.ErrCodeContentTooShort:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
