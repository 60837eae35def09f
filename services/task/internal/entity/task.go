package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task status values are stored as-is; existing clients match on these exact strings.
const (
	TaskStatusInProgress   = "In_progress"
	TaskStatusClientReview = "Clint_review"
	TaskStatusCompleted    = "completed"
)

const (
	PostStatusPending  = "pending"
	PostStatusApproved = "approved"
	PostStatusRejected = "rejected"
)

// TaskAssign is the unit of work for one role on one order.
type TaskAssign struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	RoleID    string          `json:"role_id"`
	Amount    decimal.Decimal `json:"amount"`
	PostCount int             `json:"post_count"`
	PostType  string          `json:"post_type"`
	Note      string          `json:"note"`
	Status    string          `json:"status"`
	Assignees []*TaskAssignee `json:"assignees"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HasAssignee reports whether resellerID is linked to the task.
func (t *TaskAssign) HasAssignee(resellerID string) bool {
	for _, a := range t.Assignees {
		if a.ResellerID == resellerID {
			return true
		}
	}
	return false
}

type TaskAssignee struct {
	ID         string          `json:"id"`
	TaskID     string          `json:"task_id"`
	ResellerID string          `json:"reseller_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
}

type TaskPost struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"task_id"`
	ResellerID    string    `json:"reseller_id"`
	Caption       string    `json:"caption"`
	FileURL       string    `json:"file_url"`
	Status        string    `json:"status"`
	ReviewComment string    `json:"review_comment,omitempty"`
	ReviewedBy    *string   `json:"reviewed_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
