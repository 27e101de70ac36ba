package dto

type UpdateConfigRequest struct {
	DayEndOffsetMinutes *int  `json:"day_end_offset_minutes" binding:"omitempty,min=0,max=720"`
	ClearTodoOnNewDay   *bool `json:"clear_todo_on_new_day"`
}

type ConfigResponse struct {
	DayEndOffsetMinutes int    `json:"day_end_offset_minutes"`
	ClearTodoOnNewDay   bool   `json:"clear_todo_on_new_day"`
	LastPopulatedDate   string `json:"last_populated_date"`
}
