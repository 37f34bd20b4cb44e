package leavetype

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:uq_leave_types_name"`
	Description *string   `gorm:"type:text"`

	DefaultDaysPerYear int     `gorm:"type:int;not null;default:0"`
	RequiresDocument   bool    `gorm:"not null;default:false"`
	Color              *string `gorm:"size:7"`
	IsActive           bool    `gorm:"not null;default:true;index:idx_leave_types_is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
