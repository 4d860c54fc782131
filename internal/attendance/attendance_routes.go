package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	group := r.Group("/attendance")
	group.Use(authn)
	{
		group.POST("/clock-in", handler.ClockIn)
		group.POST("/clock-out", handler.ClockOut)
		group.GET("", handler.List)
	}
}
