package record

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
	"github.com/iworck/class-chronicle-sub001/internal/shared/response"
)

// AdjustmentResponse is one audit entry as exposed to reporting consumers.
type AdjustmentResponse struct {
	ID            string    `json:"id"`
	RecordID      string    `json:"record_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedBy     string    `json:"changed_by"`
	ChangedByRole string    `json:"changed_by_role"`
	Justification string    `json:"justification"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdjustmentHandler serves the audit trail read-only. Nothing in the service
// layer ever reads these rows back; the endpoint exists for downstream
// reporting.
type AdjustmentHandler struct {
	adjustments AdjustmentRepository
}

func NewAdjustmentHandler(adjustments AdjustmentRepository) *AdjustmentHandler {
	return &AdjustmentHandler{adjustments: adjustments}
}

func (h *AdjustmentHandler) List(c *gin.Context) {
	recordID := c.Query("record_id")
	if _, err := uuid.Parse(recordID); err != nil {
		httpErr := apperror.ToHTTP(apperror.RequiredField("record_id"))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	rows, err := h.adjustments.FindAllByRecord(c.Request.Context(), recordID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	out := make([]AdjustmentResponse, 0, len(rows))
	for _, adj := range rows {
		out = append(out, AdjustmentResponse{
			ID:            adj.ID.String(),
			RecordID:      adj.RecordID.String(),
			FromStatus:    string(adj.FromStatus),
			ToStatus:      string(adj.ToStatus),
			ChangedBy:     adj.ChangedByUserID.String(),
			ChangedByRole: string(adj.ChangedByRole),
			Justification: adj.Justification,
			CreatedAt:     adj.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, nil)
}
