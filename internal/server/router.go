package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/accounts"
	"resume-parser-backend/internal/chat"
	"resume-parser-backend/internal/jobs"
	"resume-parser-backend/internal/resumes"
	"resume-parser-backend/internal/saved"
	"resume-parser-backend/internal/shared/auth"
	"resume-parser-backend/internal/shared/config"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/server/middleware"
	"resume-parser-backend/internal/shared/server/respond"
)

// Deps carries everything the router wires up.
type Deps struct {
	Config         config.Config
	Tokens         *auth.Manager
	ResumeHandler  *resumes.Handler
	JobsHandler    *jobs.Handler
	ChatHandler    *chat.Handler
	AccountHandler *accounts.Handler
	SavedHandler   *saved.Handler
	OAuth          *accounts.OAuthService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.GinMiddleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	r.POST("/parse-resumes", deps.ResumeHandler.ParseResumes)
	r.GET("/get-parsed-resume", deps.ResumeHandler.GetParsedResume)
	r.GET("/job-matches", deps.JobsHandler.JobMatches)
	r.POST("/chatbot", deps.ChatHandler.Chatbot)

	r.POST("/signup", deps.AccountHandler.Signup)
	r.POST("/login", deps.AccountHandler.Login)
	r.GET("/protected", middleware.RequireAuth(deps.Tokens), deps.AccountHandler.Protected)
	r.POST("/api/verify-token", deps.AccountHandler.VerifyToken)

	authed := r.Group("/api", middleware.RequireAuth(deps.Tokens))
	authed.POST("/save-resume", deps.SavedHandler.SaveResume)
	authed.GET("/get-saved-resumes", deps.SavedHandler.GetSavedResumes)

	if deps.OAuth != nil {
		deps.OAuth.RegisterRoutes(r.Group(""))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
