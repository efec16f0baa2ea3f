package monitor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
	"github.com/iworck/class-chronicle-sub001/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Active(c *gin.Context) {
	resp, err := h.service.Snapshot(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
