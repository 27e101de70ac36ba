package dto

import "github.com/google/uuid"

type AddTodoRequest struct {
	ActivityID uuid.UUID `json:"activity_id" binding:"required"`
}

type TodoEntryResponse struct {
	ID        uuid.UUID        `json:"id"`
	SortOrder int              `json:"sort_order"`
	Activity  ActivityResponse `json:"activity"`
}

type TodoListResponse struct {
	Data []TodoEntryResponse `json:"data"`
}

// CompleteTodoResponse is returned when a todo item is removed via
// completion: the underlying activity completion result plus any todo
// achievements that just completed.
type CompleteTodoResponse struct {
	Completion            *CompletionResponse    `json:"completion,omitempty"`
	CompletedAchievements []CompletedAchievement `json:"completed_achievements"`
}
