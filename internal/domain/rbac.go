// Package domain holds the cross-package request types shared between the
// middleware layer and the RBAC service.
package domain

type EnforceRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	InstitutionID string `json:"institution_id" binding:"required"`
	Resource      string `json:"resource" binding:"required"`
	Action        string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
