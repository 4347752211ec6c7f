package v1

import (
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
}

func NewCompanyHandler(public, companyProtected *gin.RouterGroup, companyUC domain.CompanyUsecase) {
	handler := &CompanyHandler{companyUC: companyUC}

	companies := public.Group("/companies")
	{
		companies.GET("", handler.List)
		companies.GET("/by-name/:name", handler.GetByName)
	}

	me := companyProtected.Group("/companies/me")
	{
		me.GET("", handler.GetProfile)
		me.PUT("", handler.UpdateProfile)
	}
}

func (h *CompanyHandler) GetProfile(c *gin.Context) {
	accountID := c.GetString(string(domain.KeyAccountID))

	company, err := h.companyUC.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile fetched", company)
}

func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	accountID := c.GetString(string(domain.KeyAccountID))

	input := &domain.UpdateCompanyInput{
		CompanyName: formPtr(c, "company_name"),
		About:       formPtr(c, "about"),
	}
	if v, ok := c.GetPostForm("no_of_employees"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.Error(apperror.BadRequest("no_of_employees must be a non-negative number"))
			return
		}
		input.NoOfEmployees = &n
	}
	if file, err := c.FormFile("avatar"); err == nil {
		upload, err := readUpload(file)
		if err != nil {
			c.Error(err)
			return
		}
		input.Avatar = upload
	}

	company, err := h.companyUC.UpdateProfile(c.Request.Context(), accountID, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", company)
}

func (h *CompanyHandler) GetByName(c *gin.Context) {
	name := c.Param("name")

	company, err := h.companyUC.GetByName(c.Request.Context(), name)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company fetched", company)
}

func (h *CompanyHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	companies, total, err := h.companyUC.ListCompanies(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies fetched", gin.H{
		"companies": companies,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}
