package v1

import (
	"net/http"
	"time"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/token"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	RegistrationUC domain.RegistrationUsecase
	AuthUC         domain.AuthUsecase
	UserUC         domain.UserUsecase
	CompanyUC      domain.CompanyUsecase
	JobUC          domain.JobUsecase
	SeekerTokens   *token.Manager
	CompanyTokens  *token.Manager
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middlewares. CORS must run first so error responses carry
	// the headers too.
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	rlWindow := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(middleware.GlobalRateLimitMiddleware(deps.Config.RateLimitGlobalThreshold, rlWindow))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Registration and login endpoints drive code delivery, so they get
	// the strict limiter on top of the global one.
	seekerAuth := v1.Group("/auth/seeker")
	seekerAuth.Use(middleware.StrictRateLimitMiddleware(deps.Config.RateLimitAuthThreshold, rlWindow))
	companyAuth := v1.Group("/auth/company")
	companyAuth.Use(middleware.StrictRateLimitMiddleware(deps.Config.RateLimitAuthThreshold, rlWindow))

	NewRegistrationHandler(seekerAuth, deps.RegistrationUC, domain.ActorSeeker)
	NewRegistrationHandler(companyAuth, deps.RegistrationUC, domain.ActorCompany)

	seekerProtected := v1.Group("")
	seekerProtected.Use(middleware.AuthMiddleware(deps.SeekerTokens, domain.ActorSeeker))
	companyProtected := v1.Group("")
	companyProtected.Use(middleware.AuthMiddleware(deps.CompanyTokens, domain.ActorCompany))

	NewAuthHandler(seekerAuth, companyAuth, seekerProtected, companyProtected,
		deps.AuthUC, deps.Config.AccessTokenTTL, deps.Config.RefreshTokenTTL)
	NewUserHandler(seekerProtected, companyProtected, deps.UserUC)
	NewCompanyHandler(v1, companyProtected, deps.CompanyUC)
	NewJobHandler(v1, seekerProtected, companyProtected, deps.JobUC, deps.UserUC)

	return r
}
