package models

import "time"

// Category groups a user's todos. Deleting a category is refused while it
// still contains live todos.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	Color     string `json:"color" binding:"omitempty,max=20"`
	Icon      string `json:"icon" binding:"omitempty,max=50"`
	SortOrder int    `json:"sortOrder"`
}
