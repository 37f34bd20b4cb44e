package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_leave_type"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_applications_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_applications_status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	AttachmentURL   *string    `gorm:"type:text"`
	RejectionReason *string    `gorm:"type:text"`
	Comments        *string    `gorm:"type:text"`

	Employee  *ApplicationUserProfile `gorm:"foreignKey:EmployeeID;references:ID"`
	Approver  *ApplicationUserProfile `gorm:"foreignKey:ApprovedBy;references:ID"`
	LeaveType *ApplicationLeaveType   `gorm:"foreignKey:LeaveTypeID;references:ID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ApplicationUserProfile is the read-only identity slice preloaded for
// display; the user profile itself is owned by the account system.
type ApplicationUserProfile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	Email    string    `gorm:"column:email"`
}

func (ApplicationUserProfile) TableName() string {
	return "user_profiles"
}

// ApplicationLeaveType is the catalog slice the lifecycle needs when
// validating and enriching applications.
type ApplicationLeaveType struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"column:name"`
	Color            *string   `gorm:"column:color"`
	RequiresDocument bool      `gorm:"column:requires_document"`
	IsActive         bool      `gorm:"column:is_active"`
}

func (ApplicationLeaveType) TableName() string {
	return "leave_types"
}
