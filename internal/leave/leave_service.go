package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/way-wise/company-site-backend-sub001/internal/events"
	leaveerrors "github.com/way-wise/company-site-backend-sub001/internal/leave/errors"
	"github.com/way-wise/company-site-backend-sub001/internal/messaging/kafka"
	"github.com/way-wise/company-site-backend-sub001/internal/shared/contextutil"
	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// IsTerminal reports whether no further transition may leave the status.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveApplicationResponse, error)
	GetAll(ctx context.Context, p query.Params) ([]LeaveApplicationResponse, int64, error)
	GetMine(ctx context.Context, employeeID string, p query.Params) ([]LeaveApplicationResponse, int64, error)
	GetByID(ctx context.Context, id string) (LeaveApplicationResponse, error)
	Decide(ctx context.Context, id, approverID string, req DecideLeaveRequest) (LeaveApplicationResponse, error)
	Cancel(ctx context.Context, id, requesterID string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// NewServiceWithOutbox additionally records a decision event in the
// outbox table inside the same transaction as the status change.
func NewServiceWithOutbox(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	s := NewService(db, repo, logger...).(*service)
	s.outbox = outbox
	return s
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, typeUUID, startDate, endDate, err := validateSubmitRequest(employeeID, req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	// Serializable: the overlap check and the insert must act as one,
	// otherwise two concurrent submissions can both pass the check.
	tx := s.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(tx.Error))
		return LeaveApplicationResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		s.logger.Error("submit leave type lookup failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if !lt.IsActive {
		return LeaveApplicationResponse{}, leaveerrors.ErrLeaveTypeInactive
	}
	if lt.RequiresDocument && (req.AttachmentURL == nil || *req.AttachmentURL == "") {
		return LeaveApplicationResponse{}, leaveerrors.ErrDocumentRequired
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &LeaveApplication{
		ID:            uuid.New(),
		EmployeeID:    employeeUUID,
		LeaveTypeID:   typeUUID,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalDays:     countDays(startDate, endDate),
		Reason:        req.Reason,
		Status:        StatusPending,
		AttachmentURL: req.AttachmentURL,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("application_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", l.TotalDays),
	)

	resp := mapToResponse(*l)
	resp.LeaveTypeName = lt.Name
	resp.LeaveTypeColor = lt.Color
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, p query.Params) ([]LeaveApplicationResponse, int64, error) {
	applications, total, err := s.repo.FindPage(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(applications), total, nil
}

// GetMine forces the employee filter so callers can never widen the scope
// past their own applications.
func (s *service) GetMine(ctx context.Context, employeeID string, p query.Params) ([]LeaveApplicationResponse, int64, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, 0, leaveerrors.ErrInvalidEmployeeID
	}

	if p.Filters == nil {
		p.Filters = map[string]string{}
	}
	p.Filters["employee_id"] = employeeID

	return s.GetAll(ctx, p)
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveApplicationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrApplicationNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Decide(ctx context.Context, id, approverID string, req DecideLeaveRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("application_id", id),
		zap.String("approver_id", approverID),
		zap.String("target_status", req.Status),
	)

	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidApproverID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(tx.Error))
		return LeaveApplicationResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrApplicationNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	if IsTerminal(l.Status) {
		s.logger.Warn("decide leave invalid state",
			zap.String("application_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrNotPending
	}

	l.Status = req.Status
	l.ApprovedBy = &approverUUID
	l.Comments = req.Comments
	if req.Status == StatusRejected {
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return LeaveApplicationResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
		l.RejectionReason = req.RejectionReason
	} else {
		l.RejectionReason = nil
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	if err := s.recordDecisionEvent(ctx, tx, l); err != nil {
		s.logger.Error("decide leave outbox failed",
			zap.String("application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("decide leave commit failed",
			zap.String("application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("application_id", id),
		zap.String("status", l.Status),
		zap.String("approved_by", approverID),
	)

	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, id, requesterID string) error {
	s.logger.Debug("cancel leave requested",
		zap.String("application_id", id),
		zap.String("requester_id", requesterID),
	)

	if _, err := uuid.Parse(requesterID); err != nil {
		return leaveerrors.ErrInvalidEmployeeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrApplicationNotFound
		}
		return err
	}
	if l.EmployeeID.String() != requesterID {
		s.logger.Warn("cancel leave forbidden",
			zap.String("application_id", id),
			zap.String("requester_id", requesterID),
		)
		return leaveerrors.ErrNotOwner
	}
	if IsTerminal(l.Status) {
		return leaveerrors.ErrNotPending
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("cancel leave success", zap.String("application_id", id))
	return nil
}

// recordDecisionEvent writes the leave.decided event into the outbox on
// the decision transaction's connection; the worker delivers it to Kafka.
func (s *service) recordDecisionEvent(ctx context.Context, tx *gorm.DB, l *LeaveApplication) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:     events.LeaveDecidedEventType,
		ApplicationID: l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		Status:        l.Status,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		TotalDays:     l.TotalDays,
		OccurredAt:    time.Now().UTC(),
	}
	if l.ApprovedBy != nil {
		event.DecidedBy = l.ApprovedBy.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx.Statement.ConnPool).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   l.ID.String(),
		EventType:     events.LeaveDecidedEventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateSubmitRequest(employeeID string, req SubmitLeaveRequest) (uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return employeeUUID, typeUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// countDays is the inclusive calendar-day span; weekends and holidays
// count like any other day.
func countDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func mapToResponse(l LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		TotalDays:     l.TotalDays,
		Reason:        l.Reason,
		Status:        l.Status,
		AttachmentURL: l.AttachmentURL,
		Comments:      l.Comments,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
		resp.EmployeeEmail = l.Employee.Email
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
		resp.LeaveTypeColor = l.LeaveType.Color
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.Approver != nil {
		resp.ApproverName = l.Approver.FullName
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(applications []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, len(applications))
	for i, l := range applications {
		resp[i] = mapToResponse(l)
	}
	return resp
}
