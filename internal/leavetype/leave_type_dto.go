package leavetype

type CreateLeaveTypeRequest struct {
	Name               string  `json:"name" binding:"required,max=100"`
	Description        *string `json:"description"`
	DefaultDaysPerYear int     `json:"default_days_per_year" binding:"gte=0"`
	RequiresDocument   bool    `json:"requires_document"`
	Color              *string `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateLeaveTypeRequest struct {
	Name               string  `json:"name" binding:"required,max=100"`
	Description        *string `json:"description"`
	DefaultDaysPerYear int     `json:"default_days_per_year" binding:"gte=0"`
	RequiresDocument   bool    `json:"requires_document"`
	Color              *string `json:"color" binding:"omitempty,hexcolor"`
}

type LeaveTypeResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	DefaultDaysPerYear int     `json:"default_days_per_year"`
	RequiresDocument   bool    `json:"requires_document"`
	Color              *string `json:"color,omitempty"`
	IsActive           bool    `json:"is_active"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}
