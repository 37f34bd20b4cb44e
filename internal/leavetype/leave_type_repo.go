package leavetype

import (
	"context"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"gorm.io/gorm"
)

// queryDef is the list-endpoint configuration: which columns can be
// searched, filtered and sorted, resolved at definition time.
var queryDef = query.Definition{
	Searchable: []string{"name", "description"},
	Filters: map[string]query.Filter{
		"is_active": {Column: "is_active", Compare: query.Equals},
	},
	Sortable:    []string{"name", "created_at", "default_days_per_year"},
	DefaultSort: "created_at DESC",
}

// QueryDefinition exposes the configuration to the handler for parameter
// extraction.
func QueryDefinition() query.Definition {
	return queryDef
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindPage(ctx context.Context, p query.Params) ([]LeaveType, int64, error)
	FindActive(ctx context.Context) ([]LeaveType, error)
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindByName(ctx context.Context, name string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, id string) error
	CountApplications(ctx context.Context, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindPage(ctx context.Context, p query.Params) ([]LeaveType, int64, error) {
	scoped := r.db.WithContext(ctx).Model(&LeaveType{}).Scopes(queryDef.Scope(p))

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var types []LeaveType
	err := scoped.
		Order(queryDef.Order(p)).
		Scopes(query.Paginate(p)).
		Find(&types).Error
	return types, total, err
}

func (r *repository) FindActive(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		First(&lt, "name = ?", name).Error
	return &lt, err
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&LeaveType{}, "id = ?", id).Error
}

func (r *repository) CountApplications(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_applications").
		Where("leave_type_id = ?", id).
		Count(&count).Error
	return count, err
}
