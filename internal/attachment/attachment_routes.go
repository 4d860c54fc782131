package attachment

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	group := r.Group("/leave-requests/:id/attachments")
	group.Use(authn)
	{
		group.POST("", handler.Upload)
		group.GET("", handler.List)
		group.GET("/:attachment_id", handler.Download)
		group.DELETE("/:attachment_id", handler.Delete)
	}
}
