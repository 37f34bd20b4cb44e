package leave

type SubmitLeaveRequest struct {
	LeaveTypeID   string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	Reason        string  `json:"reason" binding:"required"`
	AttachmentURL *string `json:"attachment_url" binding:"omitempty,url"`
}

type DecideLeaveRequest struct {
	Status          string  `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	RejectionReason *string `json:"rejection_reason"`
	Comments        *string `json:"comments"`
}

type LeaveApplicationResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	EmployeeEmail   string  `json:"employee_email,omitempty"`
	LeaveTypeID     string  `json:"leave_type_id"`
	LeaveTypeName   string  `json:"leave_type_name,omitempty"`
	LeaveTypeColor  *string `json:"leave_type_color,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApproverName    string  `json:"approver_name,omitempty"`
	AttachmentURL   *string `json:"attachment_url,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	Comments        *string `json:"comments,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
