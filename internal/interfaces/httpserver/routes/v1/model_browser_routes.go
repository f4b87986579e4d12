package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/model-browser/internal/interfaces/httpserver/handlers"
)

func registerModelBrowserRoutes(router gin.IRoutes, handler *handlers.ModelBrowserHandler) {
	router.POST("/search", handler.Search)
	router.POST("/open", handler.Open)
	router.GET("/actions/:action_id", handler.GetAction)
}
