package leavebalance

import (
	"context"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var queryDef = query.Definition{
	Filters: map[string]query.Filter{
		"user_profile_id": {Column: "user_profile_id", Compare: query.Equals},
		"leave_type_id":   {Column: "leave_type_id", Compare: query.Equals},
		"year":            {Column: "year", Compare: query.Equals},
	},
	Sortable:    []string{"year", "created_at", "total_days", "remaining_days"},
	DefaultSort: "year DESC, created_at DESC",
}

func QueryDefinition() query.Definition {
	return queryDef
}

// ActiveTypeDefault is the projection of the leave type catalog that
// annual allocation works from.
type ActiveTypeDefault struct {
	ID                 uuid.UUID
	Name               string
	DefaultDaysPerYear int
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindPage(ctx context.Context, p query.Params) ([]LeaveBalance, int64, error)
	FindForUser(ctx context.Context, userProfileID string, year int) ([]LeaveBalance, error)
	FindByID(ctx context.Context, id string) (*LeaveBalance, error)
	ExistsForTriple(ctx context.Context, userProfileID, leaveTypeID string, year int) (bool, error)
	FindActiveTypeDefaults(ctx context.Context) ([]ActiveTypeDefault, error)
	Update(ctx context.Context, b *LeaveBalance) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Omit("LeaveType").Create(b).Error
}

func (r *repository) FindPage(ctx context.Context, p query.Params) ([]LeaveBalance, int64, error) {
	scoped := r.db.WithContext(ctx).Model(&LeaveBalance{}).Scopes(queryDef.Scope(p))

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var balances []LeaveBalance
	err := scoped.
		Preload("LeaveType").
		Order(queryDef.Order(p)).
		Scopes(query.Paginate(p)).
		Find(&balances).Error
	return balances, total, err
}

func (r *repository) FindForUser(ctx context.Context, userProfileID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Joins("JOIN leave_types ON leave_types.id = leave_balances.leave_type_id").
		Where("leave_balances.user_profile_id = ?", userProfileID).
		Where("leave_balances.year = ?", year).
		Order("leave_types.name ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) ExistsForTriple(ctx context.Context, userProfileID, leaveTypeID string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("user_profile_id = ?", userProfileID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindActiveTypeDefaults(ctx context.Context) ([]ActiveTypeDefault, error) {
	var defaults []ActiveTypeDefault
	err := r.db.WithContext(ctx).
		Table("leave_types").
		Select("id", "name", "default_days_per_year").
		Where("is_active = ?", true).
		Where("default_days_per_year > 0").
		Order("name ASC").
		Find(&defaults).Error
	return defaults, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Omit("LeaveType").Save(b).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&LeaveBalance{}, "id = ?", id).Error
}
