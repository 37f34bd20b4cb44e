package leave

import (
	"context"
	"time"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"gorm.io/gorm"
)

var queryDef = query.Definition{
	Searchable: []string{"reason"},
	Filters: map[string]query.Filter{
		"status":          {Column: "status", Compare: query.Equals},
		"employee_id":     {Column: "employee_id", Compare: query.Equals},
		"approved_by":     {Column: "approved_by", Compare: query.Equals},
		"start_date_from": {Column: "start_date", Compare: query.GTE},
		"end_date_to":     {Column: "end_date", Compare: query.LTE},
	},
	Sortable:    []string{"created_at", "start_date", "end_date", "status"},
	DefaultSort: "created_at DESC",
}

func QueryDefinition() query.Definition {
	return queryDef
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveApplication) error
	FindPage(ctx context.Context, p query.Params) ([]LeaveApplication, int64, error)
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	FindLeaveType(ctx context.Context, id string) (*ApplicationLeaveType, error)
	Update(ctx context.Context, l *LeaveApplication) error
	Delete(ctx context.Context, id string) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds every query of the returned repository to the given
// transaction handle.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveApplication) error {
	return r.db.WithContext(ctx).
		Omit("Employee", "Approver", "LeaveType").
		Create(l).Error
}

func (r *repository) FindPage(ctx context.Context, p query.Params) ([]LeaveApplication, int64, error) {
	scoped := r.db.WithContext(ctx).Model(&LeaveApplication{}).Scopes(queryDef.Scope(p))

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []LeaveApplication
	err := scoped.
		Preload("Employee").
		Preload("Approver").
		Preload("LeaveType").
		Order(queryDef.Order(p)).
		Scopes(query.Paginate(p)).
		Find(&applications).Error
	return applications, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Approver").
		Preload("LeaveType").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindLeaveType(ctx context.Context, id string) (*ApplicationLeaveType, error) {
	var lt ApplicationLeaveType
	err := r.db.WithContext(ctx).
		First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) Update(ctx context.Context, l *LeaveApplication) error {
	return r.db.WithContext(ctx).
		Omit("Employee", "Approver", "LeaveType").
		Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&LeaveApplication{}, "id = ?", id).Error
}

// HasOverlappingPeriod reports whether the employee already holds an
// active (pending or approved) application intersecting the inclusive
// range [startDate, endDate].
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
