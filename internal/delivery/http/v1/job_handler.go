package v1

import (
	"net/http"
	"strconv"
	"time"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC  domain.JobUsecase
	userUC domain.UserUsecase
}

func NewJobHandler(public, seekerProtected, companyProtected *gin.RouterGroup, jobUC domain.JobUsecase, userUC domain.UserUsecase) {
	handler := &JobHandler{jobUC: jobUC, userUC: userUC}

	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/filter", handler.Filter)
		publicJobs.GET("/:id", handler.GetDetails)
	}

	// Matching uses the seeker's stored skills when none are given.
	seekerProtected.GET("/jobs/match", handler.Match)

	companyJobs := companyProtected.Group("/jobs")
	{
		companyJobs.POST("", handler.Create)
		companyJobs.PUT("/:id", handler.Update)
		companyJobs.DELETE("/:id", handler.Delete)
	}
	companyProtected.GET("/companies/me/jobs", handler.ListMine)
}

type JobRequest struct {
	Title              string   `json:"title" binding:"required"`
	About              string   `json:"about" binding:"required"`
	Location           string   `json:"location" binding:"required"`
	EmploymentType     string   `json:"employment_type" binding:"required"`
	PositionsAvailable int      `json:"positions_available" binding:"required,gt=0"`
	RemainingPositions *int     `json:"remaining_positions"`
	LastDate           *string  `json:"last_date"`
	CurrentlyHiring    *bool    `json:"currently_hiring"`
	Education          string   `json:"education"`
	Skills             []string `json:"skills" binding:"required,min=1"`
	GoodToHave         string   `json:"good_to_have"`
	Experience         string   `json:"experience"`
	ContactEmail       string   `json:"contact_email"`
}

func (r *JobRequest) toDomain() (*domain.Job, error) {
	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	job := &domain.Job{
		Title:              r.Title,
		About:              r.About,
		Location:           r.Location,
		EmploymentType:     r.EmploymentType,
		PositionsAvailable: r.PositionsAvailable,
		RemainingPositions: r.PositionsAvailable,
		CurrentlyHiring:    true,
		Education:          toPtr(r.Education),
		Skills:             r.Skills,
		GoodToHave:         toPtr(r.GoodToHave),
		Experience:         toPtr(r.Experience),
		ContactEmail:       toPtr(r.ContactEmail),
	}
	if r.RemainingPositions != nil {
		job.RemainingPositions = *r.RemainingPositions
	}
	if r.CurrentlyHiring != nil {
		job.CurrentlyHiring = *r.CurrentlyHiring
	}
	if r.LastDate != nil && *r.LastDate != "" {
		t, err := time.Parse(time.RFC3339, *r.LastDate)
		if err != nil {
			return nil, apperror.BadRequest("last_date must be an RFC3339 timestamp")
		}
		job.LastDate = &t
	}
	return job, nil
}

// Create godoc
// @Summary      Create a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	companyID := c.GetString(string(domain.KeyAccountID))
	if err := h.jobUC.CreateJob(c.Request.Context(), companyID, job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job fetched", job)
}

func (h *JobHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", jobList(jobs, total, page, limit))
}

func (h *JobHandler) ListMine(c *gin.Context) {
	companyID := c.GetString(string(domain.KeyAccountID))
	page, limit := pagination(c)

	jobs, total, err := h.jobUC.ListJobsByCompany(c.Request.Context(), companyID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", gin.H{
		"jobs":  jobs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Match returns jobs ordered by overlap with the given skills, falling back
// to the seeker's profile skills when the query is empty.
func (h *JobHandler) Match(c *gin.Context) {
	page, limit := pagination(c)

	skills := splitCSV(c.Query("skills"))
	if len(skills) == 0 {
		accountID := c.GetString(string(domain.KeyAccountID))
		user, err := h.userUC.GetProfile(c.Request.Context(), accountID)
		if err != nil {
			c.Error(err)
			return
		}
		skills = user.Skills
	}

	jobs, total, err := h.jobUC.MatchBySkills(c.Request.Context(), skills, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs matched", jobList(jobs, total, page, limit))
}

func (h *JobHandler) Filter(c *gin.Context) {
	page, limit := pagination(c)

	filter := domain.JobFilter{
		EmploymentType: c.Query("employment_type"),
		Location:       c.Query("location"),
		Page:           page,
		Limit:          limit,
	}
	if v := c.Query("last_date_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.Error(apperror.BadRequest("last_date_after must be an RFC3339 timestamp"))
			return
		}
		filter.LastDateAfter = &t
	}

	jobs, total, err := h.jobUC.FilterJobs(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched", jobList(jobs, total, page, limit))
}

func (h *JobHandler) Update(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}
	job.ID = id

	companyID := c.GetString(string(domain.KeyAccountID))
	if err := h.jobUC.UpdateJob(c.Request.Context(), companyID, job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		c.Error(err)
		return
	}

	companyID := c.GetString(string(domain.KeyAccountID))
	if err := h.jobUC.DeleteJob(c.Request.Context(), companyID, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

func jobID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.BadRequest("Invalid job id")
	}
	return id, nil
}

func jobList(jobs []domain.JobWithCompany, total int64, page, limit int) gin.H {
	return gin.H{
		"jobs":  jobs,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
