package http

import (
	"net/http"

	"socialdesk/pkg/logger"
	"socialdesk/pkg/response"
	"socialdesk/services/task/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type ReviewPostRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment"`
}

// SubmitPost godoc
// @Summary      Submit post
// @Description  Upload a design file for review by the order owner
// @Tags         task-management
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path     string true  "Task ID"
// @Param        caption formData string false "Caption"
// @Param        file    formData file   true  "Design file"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /task-management/tasks/{taskId}/posts [post]
func (h *PostHandler) SubmitPost(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Design file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file: %v", err)
		response.BadRequest(c, "Failed to read file")
		return
	}
	defer file.Close()

	post, err := h.postUseCase.SubmitPost(c.Request.Context(), usecase.SubmitPostInput{
		TaskID:      c.Param("taskId"),
		UserID:      c.GetString("user_id"),
		Caption:     c.PostForm("caption"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Post submitted for review", post)
}

// ListTaskPosts godoc
// @Summary      List task posts
// @Tags         task-management
// @Produce      json
// @Security     BearerAuth
// @Param        taskId path string true "Task ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /task-management/tasks/{taskId}/posts [get]
func (h *PostHandler) ListTaskPosts(c *gin.Context) {
	posts, err := h.postUseCase.ListTaskPosts(c.Request.Context(), c.Param("taskId"), c.GetString("user_id"), c.GetString("user_role"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Posts retrieved successfully", posts)
}

// ReviewPost godoc
// @Summary      Review post
// @Description  Approve or reject a submitted post. Enough approvals complete the task and credit every assignee.
// @Tags         task-management
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path string true "Post ID"
// @Param        request body ReviewPostRequest true "Review"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /task-management/posts/{postId}/review [patch]
func (h *PostHandler) ReviewPost(c *gin.Context) {
	var req ReviewPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postUseCase.ReviewPost(c.Request.Context(), usecase.ReviewPostInput{
		PostID:       c.Param("postId"),
		ReviewerID:   c.GetString("user_id"),
		ReviewerRole: c.GetString("user_role"),
		Approve:      *req.Approve,
		Comment:      req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Post reviewed", post)
}
