package calendar

import (
	"go-lams/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	calendarGroup := r.Group("/calendar")
	calendarGroup.Use(authn, middleware.ManagerOnly())
	{
		calendarGroup.GET("/team", handler.Team)
	}
}
