package models

import "time"

// Todo statuses.
const (
	TodoStatusOpen       = 0
	TodoStatusInProgress = 1
	TodoStatusCompleted  = 2
	TodoStatusCancelled  = 3
)

// Todo priorities.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// Todo is a single todo item. Deleted todos stay in the table with
// IsDeleted set and are listed in the trash until restored or purged.
type Todo struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	CategoryID   *int64     `json:"categoryId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     int        `json:"priority"`
	Status       int        `json:"status"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ReminderTime *time.Time `json:"reminderTime,omitempty"`
	SortOrder    int        `json:"sortOrder"`
	IsDeleted    int        `json:"isDeleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsCompleted reports whether the todo has been marked done.
func (t *Todo) IsCompleted() bool {
	return t.Status == TodoStatusCompleted
}

// TodoCreateRequest is the payload for creating a todo.
type TodoCreateRequest struct {
	Title        string     `json:"title" binding:"required,max=500"`
	Description  string     `json:"description"`
	Priority     int        `json:"priority" binding:"omitempty,oneof=1 2 3"`
	CategoryID   *int64     `json:"categoryId"`
	DueDate      *time.Time `json:"dueDate"`
	ReminderTime *time.Time `json:"reminderTime"`
}

// TodoUpdateRequest is the payload for updating a todo. Nil pointers leave
// the corresponding field unchanged.
type TodoUpdateRequest struct {
	Title        *string    `json:"title" binding:"omitempty,max=500"`
	Description  *string    `json:"description"`
	Priority     *int       `json:"priority" binding:"omitempty,oneof=1 2 3"`
	Status       *int       `json:"status" binding:"omitempty,oneof=0 1 2 3"`
	CategoryID   *int64     `json:"categoryId"`
	DueDate      *time.Time `json:"dueDate"`
	ReminderTime *time.Time `json:"reminderTime"`
	SortOrder    *int       `json:"sortOrder"`
}
