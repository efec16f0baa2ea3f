package rbac

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/domain"
	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
	"github.com/iworck/class-chronicle-sub001/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce is a diagnostic endpoint: operators use it to check why a
// permission was granted or denied.
func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Entrada inválida", err.Error())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.InstitutionID = strings.TrimSpace(req.InstitutionID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}
