package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/services"
)

type ForumHandler struct {
	forumService services.ForumService
}

func NewForumHandler(forumService services.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

// GET /forum/categories
func (h *ForumHandler) ListCategories(c *gin.Context) {
	cats, err := h.forumService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"categories": cats})
}

// GET /forum/categories/:slug/threads
func (h *ForumHandler) ListThreads(c *gin.Context) {
	threads, err := h.forumService.ListThreads(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"threads": threads})
}

// POST /forum/categories/:slug/threads
// body: { "title": "...", "body": "..." }
func (h *ForumHandler) CreateThread(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	thread, err := h.forumService.CreateThread(c.Request.Context(), caller, c.Param("slug"), req.Title, req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"thread": thread})
}

// GET /forum/threads/:id/posts
func (h *ForumHandler) ListPosts(c *gin.Context) {
	threadID, err := parseUUID("thread id", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	posts, err := h.forumService.ListPosts(c.Request.Context(), threadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts})
}

// POST /forum/threads/:id/posts
// body: { "body": "..." }
func (h *ForumHandler) CreatePost(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	threadID, err := parseUUID("thread id", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	post, err := h.forumService.CreatePost(c.Request.Context(), caller, threadID, req.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"post": post})
}
