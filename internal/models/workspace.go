package models

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *Workspace) IsOwner(userID uuid.UUID) bool {
	return w.OwnerID == userID
}

// TaskAnalytics holds the task counts for a workspace or project.
type TaskAnalytics struct {
	TotalTasks     int `json:"total_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}
