package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"callbot-management/controllers"
	"callbot-management/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires every controller into the gin engine. All /api routes
// except auth, registration and the orchestrator result callback require
// a valid bearer token; account approval is root-only.
func SetupRouter(
	ac *controllers.AuthController,
	acc *controllers.AccountController,
	vc *controllers.VulnerableController,
	qc *controllers.QuestionController,
	cc *controllers.CallController,
	hc *controllers.HistoryController,
	dc *controllers.DashboardController,
	requireAuth gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
			auth.POST("/register", ac.Register)
		}

		// Older clients register through the account path.
		api.POST("/account/register", ac.Register)

		// Orchestrator callback: server-to-server, no admin token.
		api.POST("/call/result", cc.Result)

		protected := api.Group("", requireAuth)
		{
			account := protected.Group("/account")
			{
				account.POST("/logout", acc.Logout)
				account.GET("/info", acc.Info)
				account.PUT("/change", acc.UpdateContact)
				account.PUT("/password", acc.ChangePassword)

				rootOnly := account.Group("", middleware.RequireRoot())
				{
					rootOnly.GET("/pending", acc.Pending)
					rootOnly.POST("/approve", acc.Approve)
				}
			}

			vulnerable := protected.Group("/vulnerable")
			{
				vulnerable.POST("/add", vc.Create)
				vulnerable.GET("/list", vc.List)
				vulnerable.GET("/search", vc.Search)
				vulnerable.POST("/batch-delete", vc.BatchDelete)
				vulnerable.GET("/:userId", vc.GetByID)
				vulnerable.PUT("/:userId", vc.Update)
				vulnerable.DELETE("/:userId", vc.Delete)
			}

			question := protected.Group("/question")
			{
				question.POST("/add", qc.Create)
				question.GET("/list", qc.List)
				question.GET("/types", qc.Types)
				question.GET("/:id", qc.GetByID)
				question.PUT("/:id", qc.Update)
				question.DELETE("/:id", qc.Delete)
			}

			call := protected.Group("/call")
			{
				call.POST("/start", cc.Start)
				call.POST("/queue/batch", cc.Start)
				call.GET("/queue/status", cc.QueueStatus)
				call.POST("/next", cc.StartNext)
				call.GET("/sse/:adminId", cc.Subscribe)
				call.GET("/vulnerable/search", vc.Search)

				call.GET("/history", hc.List)
				call.GET("/history/export", hc.Export)
				call.GET("/history/:id", hc.Detail)
			}

			protected.GET("/dashboard/summary", dc.Summary)
		}
	}

	return r
}
