package leavebalance

import (
	"context"
	"time"

	leavebalanceerrors "github.com/way-wise/company-site-backend-sub001/internal/leavebalance/errors"
	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Allocate(ctx context.Context, req AllocateBalanceRequest) (BalanceResponse, error)
	AllocateAnnualDefaults(ctx context.Context, req AllocateDefaultsRequest) ([]BalanceResponse, error)
	GetAll(ctx context.Context, p query.Params) ([]BalanceResponse, int64, error)
	GetForUser(ctx context.Context, userProfileID string, year int) ([]BalanceResponse, error)
	GetByID(ctx context.Context, id string) (BalanceResponse, error)
	Update(ctx context.Context, id string, req UpdateBalanceRequest) (BalanceResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Allocate(ctx context.Context, req AllocateBalanceRequest) (BalanceResponse, error) {
	s.logger.Debug("allocate balance requested",
		zap.String("user_profile_id", req.UserProfileID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)

	userUUID, err := uuid.Parse(req.UserProfileID)
	if err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserProfileID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidLeaveTypeID
	}
	if req.TotalDays < 0 {
		return BalanceResponse{}, leavebalanceerrors.ErrNegativeTotalDays
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("allocate balance begin tx failed", zap.Error(tx.Error))
		return BalanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Fast reject; the unique index on the triple decides the race.
	exists, err := qtx.ExistsForTriple(ctx, req.UserProfileID, req.LeaveTypeID, req.Year)
	if err != nil {
		s.logger.Error("allocate balance existence check failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if exists {
		return BalanceResponse{}, leavebalanceerrors.ErrBalanceExists
	}

	b := &LeaveBalance{
		ID:            uuid.New(),
		UserProfileID: userUUID,
		LeaveTypeID:   typeUUID,
		Year:          req.Year,
		TotalDays:     req.TotalDays,
		UsedDays:      0,
		RemainingDays: req.TotalDays,
	}

	if err := qtx.Create(ctx, b); err != nil {
		s.logger.Error("allocate balance persist failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("allocate balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	s.logger.Info("allocate balance success",
		zap.String("balance_id", b.ID.String()),
		zap.String("user_profile_id", req.UserProfileID),
		zap.Int("year", req.Year),
	)

	return mapToResponse(*b), nil
}

func (s *service) AllocateAnnualDefaults(ctx context.Context, req AllocateDefaultsRequest) ([]BalanceResponse, error) {
	s.logger.Debug("allocate annual defaults requested",
		zap.String("user_profile_id", req.UserProfileID),
		zap.Int("year", req.Year),
	)

	userUUID, err := uuid.Parse(req.UserProfileID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidUserProfileID
	}

	// One transaction for the whole batch so a mid-loop failure leaves
	// no partial allocation behind.
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("allocate annual defaults begin tx failed", zap.Error(tx.Error))
		return nil, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	defaults, err := qtx.FindActiveTypeDefaults(ctx)
	if err != nil {
		s.logger.Error("allocate annual defaults load types failed", zap.Error(err))
		return nil, err
	}

	created := make([]BalanceResponse, 0, len(defaults))
	for _, d := range defaults {
		exists, err := qtx.ExistsForTriple(ctx, req.UserProfileID, d.ID.String(), req.Year)
		if err != nil {
			return nil, err
		}
		if exists {
			// Already allocated for this type/year; idempotent skip.
			continue
		}

		b := &LeaveBalance{
			ID:            uuid.New(),
			UserProfileID: userUUID,
			LeaveTypeID:   d.ID,
			Year:          req.Year,
			TotalDays:     d.DefaultDaysPerYear,
			UsedDays:      0,
			RemainingDays: d.DefaultDaysPerYear,
		}
		if err := qtx.Create(ctx, b); err != nil {
			s.logger.Error("allocate annual defaults persist failed",
				zap.String("leave_type_id", d.ID.String()),
				zap.Error(err),
			)
			return nil, mapRepositoryError(err)
		}

		resp := mapToResponse(*b)
		resp.LeaveTypeName = d.Name
		created = append(created, resp)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("allocate annual defaults commit failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("allocate annual defaults success",
		zap.String("user_profile_id", req.UserProfileID),
		zap.Int("year", req.Year),
		zap.Int("created", len(created)),
	)

	return created, nil
}

func (s *service) GetAll(ctx context.Context, p query.Params) ([]BalanceResponse, int64, error) {
	balances, total, err := s.repo.FindPage(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(balances), total, nil
}

func (s *service) GetForUser(ctx context.Context, userProfileID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(userProfileID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidUserProfileID
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	balances, err := s.repo.FindForUser(ctx, userProfileID, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

func (s *service) GetByID(ctx context.Context, id string) (BalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidBalanceID
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return BalanceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*b), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateBalanceRequest) (BalanceResponse, error) {
	s.logger.Debug("update balance requested", zap.String("balance_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidBalanceID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update balance begin tx failed", zap.Error(tx.Error))
		return BalanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByID(ctx, id)
	if err != nil {
		return BalanceResponse{}, mapRepositoryError(err)
	}

	// total_days applies first, used_days against the resulting base;
	// remaining_days is always recomputed so the ledger invariant holds.
	if req.TotalDays != nil {
		if *req.TotalDays < 0 {
			return BalanceResponse{}, leavebalanceerrors.ErrNegativeTotalDays
		}
		b.TotalDays = *req.TotalDays
	}
	if req.UsedDays != nil {
		if *req.UsedDays < 0 {
			return BalanceResponse{}, leavebalanceerrors.ErrNegativeUsedDays
		}
		b.UsedDays = *req.UsedDays
	}
	b.RemainingDays = b.TotalDays - b.UsedDays

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("update balance persist failed", zap.String("balance_id", id), zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update balance commit failed", zap.String("balance_id", id), zap.Error(err))
		return BalanceResponse{}, err
	}
	s.logger.Info("update balance success",
		zap.String("balance_id", id),
		zap.Int("total_days", b.TotalDays),
		zap.Int("used_days", b.UsedDays),
		zap.Int("remaining_days", b.RemainingDays),
	)

	return mapToResponse(*b), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leavebalanceerrors.ErrInvalidBalanceID
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
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("delete balance success", zap.String("balance_id", id))
	return nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		ID:            b.ID.String(),
		UserProfileID: b.UserProfileID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
	if b.LeaveType != nil {
		resp.LeaveTypeName = b.LeaveType.Name
		resp.Color = b.LeaveType.Color
	}
	return resp
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
