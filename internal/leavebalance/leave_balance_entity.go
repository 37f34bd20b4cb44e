package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one entitlement ledger row, unique per
// (user profile, leave type, year) triple.
type LeaveBalance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_user_type_year"`
	LeaveTypeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_user_type_year"`
	Year          int       `gorm:"type:int;not null;uniqueIndex:uq_leave_balances_user_type_year"`

	TotalDays     int `gorm:"type:int;not null;default:0"`
	UsedDays      int `gorm:"type:int;not null;default:0"`
	RemainingDays int `gorm:"type:int;not null;default:0"`

	LeaveType *BalanceLeaveType `gorm:"foreignKey:LeaveTypeID;references:ID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BalanceLeaveType is the read-only slice of the leave type catalog the
// ledger preloads for display.
type BalanceLeaveType struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"column:name"`
	Color *string   `gorm:"column:color"`
}

func (BalanceLeaveType) TableName() string {
	return "leave_types"
}
