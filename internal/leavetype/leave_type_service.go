package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	leavetypeerrors "github.com/way-wise/company-site-backend-sub001/internal/leavetype/errors"
	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ActiveTypesCacheKey caches the active catalog; it is master data that
// every submit/allocate path reads.
const ActiveTypesCacheKey = "leave_types:active"

const activeTypesCacheTTL = 30 * time.Minute

type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, p query.Params) ([]LeaveTypeResponse, int64, error)
	GetActive(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (LeaveTypeResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("create leave type requested", zap.String("name", req.Name))

	if req.DefaultDaysPerYear < 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeDefaultDays
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create leave type begin tx failed", zap.Error(tx.Error))
		return LeaveTypeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Fast reject on duplicates; the unique index catches the race.
	if err := s.ensureNameFree(ctx, qtx, req.Name, nil); err != nil {
		return LeaveTypeResponse{}, err
	}

	lt := &LeaveType{
		ID:                 uuid.New(),
		Name:               req.Name,
		Description:        req.Description,
		DefaultDaysPerYear: req.DefaultDaysPerYear,
		RequiresDocument:   req.RequiresDocument,
		Color:              req.Color,
		IsActive:           true,
	}

	if err := qtx.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateActiveCache(ctx)
	s.logger.Info("create leave type success",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("name", lt.Name),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, p query.Params) ([]LeaveTypeResponse, int64, error) {
	types, total, err := s.repo.FindPage(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(types), total, nil
}

func (s *service) GetActive(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, ActiveTypesCacheKey).Result()
		if err == nil {
			var resp []LeaveTypeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// Singleflight keeps concurrent cache misses down to one DB query.
	v, err, _ := s.sf.Do(ActiveTypesCacheKey, func() (interface{}, error) {
		types, err := s.repo.FindActive(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, ActiveTypesCacheKey, jsonData, activeTypesCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested", zap.String("leave_type_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	if req.DefaultDaysPerYear < 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeDefaultDays
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update leave type begin tx failed", zap.Error(tx.Error))
		return LeaveTypeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	// A rename may not collide with a different row.
	if err := s.ensureNameFree(ctx, qtx, req.Name, &lt.ID); err != nil {
		return LeaveTypeResponse{}, err
	}

	lt.Name = req.Name
	lt.Description = req.Description
	lt.DefaultDaysPerYear = req.DefaultDaysPerYear
	lt.RequiresDocument = req.RequiresDocument
	lt.Color = req.Color

	if err := qtx.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type persist failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update leave type commit failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateActiveCache(ctx)
	s.logger.Info("update leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete leave type requested", zap.String("leave_type_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return leavetypeerrors.ErrInvalidLeaveTypeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	// Hard delete only when no application references the type;
	// referenced types are deactivated via ToggleStatus instead.
	count, err := qtx.CountApplications(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Warn("delete leave type blocked",
			zap.String("leave_type_id", id),
			zap.Int64("application_count", count),
		)
		return leavetypeerrors.ErrLeaveTypeHasApplications
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.invalidateActiveCache(ctx)
	s.logger.Info("delete leave type success", zap.String("leave_type_id", id))
	return nil
}

func (s *service) ToggleStatus(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return LeaveTypeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	lt.IsActive = !lt.IsActive

	if err := qtx.Update(ctx, lt); err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return LeaveTypeResponse{}, err
	}

	s.invalidateActiveCache(ctx)
	s.logger.Info("toggle leave type status success",
		zap.String("leave_type_id", id),
		zap.Bool("is_active", lt.IsActive),
	)

	return mapToResponse(*lt), nil
}

func (s *service) ensureNameFree(ctx context.Context, repo Repository, name string, selfID *uuid.UUID) error {
	existing, err := repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if selfID != nil && existing.ID == *selfID {
		return nil
	}
	return leavetypeerrors.ErrLeaveTypeNameTaken
}

func (s *service) invalidateActiveCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActiveTypesCacheKey).Err(); err != nil {
		s.logger.Error("invalidate active leave type cache failed", zap.Error(err))
	}
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 lt.ID.String(),
		Name:               lt.Name,
		Description:        lt.Description,
		DefaultDaysPerYear: lt.DefaultDaysPerYear,
		RequiresDocument:   lt.RequiresDocument,
		Color:              lt.Color,
		IsActive:           lt.IsActive,
		CreatedAt:          lt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          lt.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
