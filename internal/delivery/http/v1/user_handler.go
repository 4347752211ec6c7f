package v1

import (
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(seekerProtected, companyProtected *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	me := seekerProtected.Group("/users/me")
	{
		me.GET("", handler.GetProfile)
		me.PUT("", handler.UpdateProfile)
	}

	// Companies browse seeker profiles for sourcing.
	companyProtected.GET("/users", handler.List)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	accountID := c.GetString(string(domain.KeyAccountID))

	user, err := h.userUC.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile fetched", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	accountID := c.GetString(string(domain.KeyAccountID))

	input := &domain.UpdateProfileInput{
		FullName:  formPtr(c, "full_name"),
		Title:     formPtr(c, "title"),
		Education: formPtr(c, "education"),
		Phone:     formPtr(c, "phone"),
		Skills:    splitCSV(c.PostForm("skills")),
	}
	if file, err := c.FormFile("resume"); err == nil {
		upload, err := readUpload(file)
		if err != nil {
			c.Error(err)
			return
		}
		input.Resume = upload
	}

	user, err := h.userUC.UpdateProfile(c.Request.Context(), accountID, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	users, total, err := h.userUC.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users fetched", gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func formPtr(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
