package models

// Status is derived from which of the three tables currently holds an item.
// It is never stored as a column.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DecisionRequest is the admin moderation decision body.
// Reason is required when Status is "rejected"; the handler enforces it
// because binding tags cannot express the conditional.
type DecisionRequest struct {
	Status     Status  `json:"status" binding:"required,oneof=approved rejected"`
	Reason     string  `json:"reason"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// DecisionResponse mirrors the shape the admin dashboard expects.
type DecisionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
