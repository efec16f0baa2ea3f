package review

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/record"
	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
	"github.com/iworck/class-chronicle-sub001/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Pending(c *gin.Context) {
	professorID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.service.Pending(c.Request.Context(), professorID, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Duplicates(c *gin.Context) {
	professorID := c.GetString("user_id")

	groups, err := h.service.Duplicates(c.Request.Context(), professorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), c.GetString("user_id"), actorRole(c.GetString("role")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Deny(c *gin.Context) {
	var req DenyRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
		return
	}

	resp, err := h.service.Deny(c.Request.Context(), c.Param("id"), c.GetString("user_id"), actorRole(c.GetString("role")), req.Justification)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func actorRole(claim string) record.ActorRole {
	role := record.ActorRole(claim)
	if !role.Valid() {
		return record.RoleProfessor
	}
	return role
}
