package v1

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Uploaded files are buffered in memory before hitting object storage.
const maxUploadBytes = 5 << 20 // 5 MiB

type RegistrationHandler struct {
	registrationUC domain.RegistrationUsecase
	actor          domain.ActorType
}

// NewRegistrationHandler mounts the register/verify/resend flow for one actor
// type under the given group (e.g. /auth/seeker, /auth/company).
func NewRegistrationHandler(group *gin.RouterGroup, registrationUC domain.RegistrationUsecase, actor domain.ActorType) {
	handler := &RegistrationHandler{registrationUC: registrationUC, actor: actor}

	group.POST("/register", handler.Register)
	group.POST("/verify", handler.Verify)
	group.POST("/resend", handler.Resend)
}

type VerifyRequest struct {
	Identifier string `json:"identifier" binding:"required,identifier"`
	Code       string `json:"code" binding:"required"`
}

type ResendRequest struct {
	Identifier string `json:"identifier" binding:"required,identifier"`
}

// Register godoc
// @Summary      Start a registration
// @Description  Stores an unverified registration and sends a one-time code to the identifier
// @Tags         registration
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /auth/{actor}/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	input := &domain.RegisterInput{
		Identifier:      c.PostForm("identifier"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		FullName:        c.PostForm("full_name"),
		CompanyName:     c.PostForm("company_name"),
		Phone:           c.PostForm("phone"),
		Education:       c.PostForm("education"),
		Skills:          splitCSV(c.PostForm("skills")),
	}

	if file, err := c.FormFile("resume"); err == nil {
		upload, err := readUpload(file)
		if err != nil {
			c.Error(err)
			return
		}
		input.Resume = upload
	}
	if file, err := c.FormFile("avatar"); err == nil {
		upload, err := readUpload(file)
		if err != nil {
			c.Error(err)
			return
		}
		input.Avatar = upload
	}

	result, err := h.registrationUC.Register(c.Request.Context(), h.actor, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Verification code sent", result)
}

// Verify godoc
// @Summary      Verify a registration
// @Description  Confirms the one-time code and creates the permanent account
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      VerifyRequest  true  "Identifier and code"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /auth/{actor}/verify [post]
func (h *RegistrationHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Identifier and code are required"))
		return
	}

	ref, err := h.registrationUC.Verify(c.Request.Context(), h.actor, req.Identifier, req.Code)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account verified", ref)
}

// Resend godoc
// @Summary      Resend a verification code
// @Description  Issues a fresh code for a pending registration, subject to throttling
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body      ResendRequest  true  "Identifier"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/{actor}/resend [post]
func (h *RegistrationHandler) Resend(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Identifier is required"))
		return
	}

	result, err := h.registrationUC.Resend(c.Request.Context(), h.actor, req.Identifier)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Verification code resent", result)
}

func readUpload(header *multipart.FileHeader) (*domain.FileUpload, error) {
	if header.Size > maxUploadBytes {
		return nil, apperror.BadRequest("File exceeds the 5MB limit")
	}
	f, err := header.Open()
	if err != nil {
		return nil, apperror.BadRequest("Unable to read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, apperror.BadRequest("Unable to read uploaded file")
	}
	if int64(len(data)) > maxUploadBytes {
		return nil, apperror.BadRequest("File exceeds the 5MB limit")
	}

	return &domain.FileUpload{
		Data:        data,
		Ext:         strings.ToLower(filepath.Ext(header.Filename)),
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
