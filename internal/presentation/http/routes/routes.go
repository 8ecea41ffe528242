package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nethmavilhandesilva/trading-workspace/internal/config"
	"github.com/nethmavilhandesilva/trading-workspace/internal/presentation/http/handler"
	"github.com/nethmavilhandesilva/trading-workspace/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Workspace *handler.WorkspaceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.NewClientRateLimiter(&deps.Cfg.RateLimit).Middleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		ws := v1.Group("/workspace")
		{
			ws.GET("/state", h.Workspace.GetState)
			ws.POST("/refresh", h.Workspace.Refresh)
			ws.GET("/search", h.Workspace.Search)

			ws.POST("/selection/held", h.Workspace.ToggleHeld)
			ws.POST("/selection/printed", h.Workspace.TogglePrinted)
			ws.POST("/selection/clear", h.Workspace.ClearSelection)

			ws.POST("/entry/field", h.Workspace.SetField)
			ws.POST("/entry/customer", h.Workspace.SelectCustomer)
			ws.POST("/entry/item", h.Workspace.SelectItem)
			ws.POST("/entry/advance", h.Workspace.Advance)
			ws.POST("/entry/edit/:id", h.Workspace.EditLine)

			ws.POST("/lines", h.Workspace.SubmitLine)
			ws.POST("/given-amount", h.Workspace.SubmitGivenAmount)
			ws.DELETE("/lines/:id", h.Workspace.DeleteLine)

			ws.POST("/print", h.Workspace.PrintBill)
			ws.POST("/process", h.Workspace.ProcessHeld)
		}
	}

	return router
}
