package leavebalance

type AllocateBalanceRequest struct {
	UserProfileID string `json:"user_profile_id" binding:"required,uuid"`
	LeaveTypeID   string `json:"leave_type_id" binding:"required,uuid"`
	Year          int    `json:"year" binding:"required,gte=2000,lte=2200"`
	TotalDays     int    `json:"total_days" binding:"gte=0"`
}

type AllocateDefaultsRequest struct {
	UserProfileID string `json:"user_profile_id" binding:"required,uuid"`
	Year          int    `json:"year" binding:"required,gte=2000,lte=2200"`
}

// UpdateBalanceRequest carries optional fields; remaining days are always
// recomputed server-side, never accepted from the client.
type UpdateBalanceRequest struct {
	TotalDays *int `json:"total_days" binding:"omitempty,gte=0"`
	UsedDays  *int `json:"used_days" binding:"omitempty,gte=0"`
}

type BalanceResponse struct {
	ID            string  `json:"id"`
	UserProfileID string  `json:"user_profile_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	Color         *string `json:"color,omitempty"`
	Year          int     `json:"year"`
	TotalDays     int     `json:"total_days"`
	UsedDays      int     `json:"used_days"`
	RemainingDays int     `json:"remaining_days"`
}
