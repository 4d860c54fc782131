package calendar

import (
	"net/http"
	"strconv"
	"time"

	"go-lams/internal/shared/apperror"
	"go-lams/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Team(c *gin.Context) {
	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))

	resp, err := h.service.TeamCalendar(c.Request.Context(), c.GetString("user_id"), year, month)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		if httpErr.Status >= http.StatusInternalServerError {
			h.logger.Error("team calendar failed", zap.Error(err))
		}
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
