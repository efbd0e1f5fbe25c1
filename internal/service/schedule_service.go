package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/dto"
	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type scheduleSlotRepository interface {
	List(ctx context.Context, filter models.SlotAssignmentFilter) ([]models.SlotAssignment, int, error)
	FindByID(ctx context.Context, id string) (*models.SlotAssignment, error)
	FindByOrder(ctx context.Context, orderNumber string) (*models.SlotAssignment, error)
	ListBySlot(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) ([]models.SlotAssignment, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SlotAssignment) error
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.SlotAssignment) error
	UpdateSlot(ctx context.Context, exec sqlx.ExtContext, id string, plant models.Plant, shift models.Shift, date time.Time) (int64, error)
	Reassign(ctx context.Context, exec sqlx.ExtContext, id string, plant models.Plant, shift models.Shift, date time.Time, quantity float64) (int64, error)
	Lock(ctx context.Context, exec sqlx.ExtContext, id string, fulfilled, pending float64, isSplit bool) (int64, error)
}

type scheduleOrderRepository interface {
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByNumbers(ctx context.Context, orderNumbers []string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, orderNumber string, status models.OrderStatus) (int64, error)
	MarkSplit(ctx context.Context, orderNumber string, isSplit bool) error
}

type auditAppender interface {
	Append(ctx context.Context, exec sqlx.ExtContext, entry *models.RescheduleAudit) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// ScheduleService owns every mutation of the slot assignment store: assign,
// reslot, lock, and bulk assignment, plus the board read that drives the
// planning screen. Capacity is soft throughout; the only hard conflicts are
// locked assignments and the lock CAS race.
type ScheduleService struct {
	slots       scheduleSlotRepository
	orders      scheduleOrderRepository
	audit       auditAppender
	capacity    *CapacityService
	fulfillment *FulfillmentService
	rollforward *RollForwardService
	cache       *CacheService
	metrics     *MetricsService
	tx          txProvider
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewScheduleService constructs a schedule service.
func NewScheduleService(
	slots scheduleSlotRepository,
	orders scheduleOrderRepository,
	audit auditAppender,
	capacity *CapacityService,
	fulfillment *FulfillmentService,
	rollforward *RollForwardService,
	cache *CacheService,
	metrics *MetricsService,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		slots:       slots,
		orders:      orders,
		audit:       audit,
		capacity:    capacity,
		fulfillment: fulfillment,
		rollforward: rollforward,
		cache:       cache,
		metrics:     metrics,
		tx:          tx,
		validate:    validate,
		logger:      logger,
		now:         time.Now,
	}
}

// parseSlot converts the wire representation of a slot into typed values.
func parseSlot(plantRaw, shiftRaw, dateRaw string) (models.Plant, models.Shift, time.Time, error) {
	plant, ok := models.ParsePlant(plantRaw)
	if !ok {
		return "", "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown plant %q", plantRaw))
	}
	shift, ok := models.ParseShift(shiftRaw)
	if !ok {
		return "", "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown shift %q", shiftRaw))
	}
	date, err := time.ParseInLocation("2006-01-02", dateRaw, time.UTC)
	if err != nil {
		return "", "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", dateRaw))
	}
	return plant, shift, date, nil
}

// Assign creates a slot assignment for an order, or moves the order's
// existing unlocked assignment. Overbooking succeeds with CapacityExceeded
// set; the only hard conflict is a locked occupant in the target slot whose
// presence would push the slot past its configured capacity.
func (s *ScheduleService) Assign(ctx context.Context, req dto.AssignRequest) (*dto.AssignResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment request")
	}
	plant, shift, date, err := parseSlot(req.Plant, req.Shift, req.Date)
	if err != nil {
		return nil, err
	}

	ord, err := s.orders.FindByNumber(ctx, req.OrderNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("order %s not found", req.OrderNumber))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}

	table, err := s.capacity.Table(ctx)
	if err != nil {
		return nil, err
	}
	capQty, source := table.Lookup(plant, shift, ord.ProductName)
	capacityKnown := source != models.CapacitySourceNone

	occupants, err := s.slots.ListBySlot(ctx, plant, shift, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect target slot")
	}
	combined := req.Quantity
	lockedByOther := false
	for _, occ := range occupants {
		if occ.OrderNumber == ord.OrderNumber {
			continue
		}
		combined += occ.Quantity
		if occ.Locked {
			lockedByOther = true
		}
	}
	exceeded := capacityKnown && capQty > 0 && combined > capQty
	if exceeded && lockedByOther {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("slot %s/%s/%s is locked and order %s would exceed its capacity of %.0f", plant, shift, req.Date, ord.OrderNumber, capQty))
	}

	existing, err := s.slots.FindByOrder(ctx, ord.OrderNumber)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing assignment")
	}
	if existing != nil && existing.Locked {
		return nil, appErrors.Clone(appErrors.ErrLocked, fmt.Sprintf("assignment %s for order %s is locked", existing.ID, ord.OrderNumber))
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var assignment *models.SlotAssignment
	if existing != nil {
		affected, reassignErr := s.slots.Reassign(ctx, tx, existing.ID, plant, shift, date, req.Quantity)
		if reassignErr != nil {
			err = appErrors.Wrap(reassignErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move assignment")
			return nil, err
		}
		if affected == 0 {
			err = appErrors.Clone(appErrors.ErrLocked, fmt.Sprintf("assignment %s was locked concurrently", existing.ID))
			return nil, err
		}
		assignment = existing
		assignment.Plant = plant
		assignment.Shift = shift
		assignment.Date = date
		assignment.Quantity = req.Quantity
		assignment.PendingQty = req.Quantity - assignment.FulfilledQty
		if assignment.PendingQty < 0 {
			assignment.PendingQty = 0
		}
	} else {
		assignment = &models.SlotAssignment{
			OrderNumber: ord.OrderNumber,
			ProductName: ord.ProductName,
			Plant:       plant,
			Shift:       shift,
			Date:        date,
			Quantity:    req.Quantity,
			UOM:         ord.UOM,
			RequiredBy:  ord.RequiredBy,
		}
		if createErr := s.slots.Create(ctx, tx, assignment); createErr != nil {
			err = appErrors.Wrap(createErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
			return nil, err
		}
	}

	if ord.Status == models.OrderStatusPending {
		if _, statusErr := s.orders.UpdateStatus(ctx, tx, ord.OrderNumber, models.OrderStatusScheduled); statusErr != nil {
			err = appErrors.Wrap(statusErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark order scheduled")
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment")
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateSlot(ctx, plant, shift, date)
		if existing != nil {
			s.cache.InvalidateSlot(ctx, existing.Plant, existing.Shift, existing.Date)
		}
	}

	outcome := AssignOutcomeOK
	switch {
	case !capacityKnown:
		outcome = AssignOutcomeNoCapacity
	case exceeded:
		outcome = AssignOutcomeOverbooked
	}
	s.metrics.RecordAssignment(outcome)
	s.logger.Info("order assigned to slot",
		zap.String("order_number", ord.OrderNumber),
		zap.String("plant", string(plant)),
		zap.String("shift", string(shift)),
		zap.String("date", req.Date),
		zap.String("outcome", outcome))

	util, utilErr := s.capacity.Utilization(ctx, plant, shift, date)
	if utilErr != nil {
		// The write already committed; a failed snapshot read only costs
		// the response its utilization block.
		s.logger.Warn("failed to compute utilization after assignment", zap.Error(utilErr))
		util = nil
	}

	return &dto.AssignResponse{
		Assignment:       *assignment,
		CapacityUnknown:  !capacityKnown,
		CapacityExceeded: exceeded,
		Utilization:      util,
	}, nil
}

// Reslot moves an unlocked assignment to a new slot and appends an audit
// entry in the same transaction.
func (s *ScheduleService) Reslot(ctx context.Context, id string, req dto.ReslotRequest) (*models.SlotAssignment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reslot request")
	}
	plant, shift, date, err := parseSlot(req.Plant, req.Shift, req.Date)
	if err != nil {
		return nil, err
	}

	assignment, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.Locked {
		return nil, appErrors.Clone(appErrors.ErrLocked, fmt.Sprintf("assignment %s for order %s is locked", id, assignment.OrderNumber))
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	affected, updateErr := s.slots.UpdateSlot(ctx, tx, id, plant, shift, date)
	if updateErr != nil {
		err = appErrors.Wrap(updateErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move assignment")
		return nil, err
	}
	if affected == 0 {
		err = appErrors.Clone(appErrors.ErrLocked, fmt.Sprintf("assignment %s was locked concurrently", id))
		return nil, err
	}

	entry := &models.RescheduleAudit{
		OrderNumber: assignment.OrderNumber,
		Action:      models.AuditActionReslot,
		OldPlant:    assignment.Plant,
		OldShift:    assignment.Shift,
		OldDate:     assignment.Date,
		NewPlant:    plant,
		NewShift:    shift,
		NewDate:     date,
		ChangedBy:   req.ChangedBy,
	}
	if auditErr := s.audit.Append(ctx, tx, entry); auditErr != nil {
		err = appErrors.Wrap(auditErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record reschedule audit")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit reslot")
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateSlot(ctx, assignment.Plant, assignment.Shift, assignment.Date)
		s.cache.InvalidateSlot(ctx, plant, shift, date)
	}
	s.logger.Info("assignment reslotted",
		zap.String("assignment_id", id),
		zap.String("order_number", assignment.OrderNumber),
		zap.String("new_plant", string(plant)),
		zap.String("new_shift", string(shift)),
		zap.Time("new_date", date))

	assignment.Plant = plant
	assignment.Shift = shift
	assignment.Date = date
	return assignment, nil
}

// Lock freezes an assignment, snapshotting its fulfillment at the moment of
// locking. Locking an already locked assignment is a no-op. The underlying
// update is compare-and-set on locked = FALSE, so a concurrent lock race
// resolves to a single winner and the loser silently observes the winner's
// state.
func (s *ScheduleService) Lock(ctx context.Context, id, changedBy string) (*models.SlotAssignment, error) {
	assignment, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %s not found", id))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.Locked {
		return assignment, nil
	}

	fulfilled := assignment.FulfilledQty
	if s.fulfillment != nil {
		breakdown, fErr := s.fulfillment.Breakdown(ctx, assignment.OrderNumber)
		if fErr == nil {
			fulfilled = breakdown.FulfilledTotal
			if fulfilled > assignment.Quantity {
				fulfilled = assignment.Quantity
			}
		}
	}
	pending := assignment.Quantity - fulfilled
	if pending < 0 {
		pending = 0
	}
	isSplit := fulfilled > 0 && pending > 0

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	affected, lockErr := s.slots.Lock(ctx, tx, id, fulfilled, pending, isSplit)
	if lockErr != nil {
		err = appErrors.Wrap(lockErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock assignment")
		return nil, err
	}
	if affected == 0 {
		// Another actor locked between our read and write. Their snapshot
		// stands; report the current state without error.
		_ = tx.Rollback()
		current, findErr := s.slots.FindByID(ctx, id)
		if findErr != nil {
			return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload assignment")
		}
		return current, nil
	}

	entry := &models.RescheduleAudit{
		OrderNumber: assignment.OrderNumber,
		Action:      models.AuditActionLock,
		OldPlant:    assignment.Plant,
		OldShift:    assignment.Shift,
		OldDate:     assignment.Date,
		NewPlant:    assignment.Plant,
		NewShift:    assignment.Shift,
		NewDate:     assignment.Date,
		ChangedBy:   changedBy,
	}
	if auditErr := s.audit.Append(ctx, tx, entry); auditErr != nil {
		err = appErrors.Wrap(auditErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record lock audit")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit lock")
		return nil, err
	}

	s.metrics.RecordLock()
	if isSplit {
		if splitErr := s.orders.MarkSplit(ctx, assignment.OrderNumber, true); splitErr != nil {
			s.logger.Warn("failed to flag split order", zap.String("order_number", assignment.OrderNumber), zap.Error(splitErr))
		}
	}
	if s.cache != nil {
		s.cache.InvalidateSlot(ctx, assignment.Plant, assignment.Shift, assignment.Date)
	}
	s.logger.Info("assignment locked",
		zap.String("assignment_id", id),
		zap.String("order_number", assignment.OrderNumber),
		zap.Float64("fulfilled_qty", fulfilled),
		zap.Float64("pending_qty", pending),
		zap.Bool("is_split_order", isSplit))

	assignment.Locked = true
	assignment.FulfilledQty = fulfilled
	assignment.PendingQty = pending
	assignment.IsSplitOrder = isSplit
	return assignment, nil
}

// BulkAssign applies one (shift, date) to many orders in a single
// transaction. Each order keeps its own plant. If any order cannot be
// scheduled the whole batch rolls back and the returned error reports every
// order by outcome, so no order is ever left marked Scheduled without a
// matching assignment.
func (s *ScheduleService) BulkAssign(ctx context.Context, req dto.BulkAssignRequest) (*dto.BulkAssignResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk assignment request")
	}
	shift, ok := models.ParseShift(req.Shift)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown shift %q", req.Shift))
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q", req.Date))
	}

	found, err := s.orders.FindByNumbers(ctx, req.OrderNumbers)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load orders")
	}
	byNumber := make(map[string]models.Order, len(found))
	for _, ord := range found {
		byNumber[ord.OrderNumber] = ord
	}

	var failures []models.BulkAssignFailure
	var eligible []models.Order
	for _, number := range req.OrderNumbers {
		ord, ok := byNumber[number]
		if !ok {
			failures = append(failures, models.BulkAssignFailure{OrderNumber: number, Reason: "order not found"})
			continue
		}
		if ord.Status == models.OrderStatusCompleted {
			failures = append(failures, models.BulkAssignFailure{OrderNumber: number, Reason: "order already completed"})
			continue
		}
		eligible = append(eligible, ord)
	}
	if len(failures) > 0 {
		batchErr := &models.BulkAssignError{Failed: failures}
		for _, ord := range eligible {
			batchErr.Succeeded = append(batchErr.Succeeded, ord.OrderNumber)
		}
		return nil, appErrors.Wrap(batchErr, appErrors.ErrPartialBatch.Code, appErrors.ErrPartialBatch.Status, "bulk assignment rejected")
	}

	assignments := make([]models.SlotAssignment, 0, len(eligible))
	for _, ord := range eligible {
		assignments = append(assignments, models.SlotAssignment{
			OrderNumber: ord.OrderNumber,
			ProductName: ord.ProductName,
			Plant:       ord.Plant,
			Shift:       shift,
			Date:        date,
			Quantity:    ord.Quantity,
			UOM:         ord.UOM,
			RequiredBy:  ord.RequiredBy,
		})
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if createErr := s.slots.BulkCreateWithTx(ctx, tx, assignments); createErr != nil {
		err = appErrors.Wrap(createErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch assignments")
		return nil, err
	}

	scheduled := make([]string, 0, len(eligible))
	for _, ord := range eligible {
		if ord.Status != models.OrderStatusPending {
			scheduled = append(scheduled, ord.OrderNumber)
			continue
		}
		affected, statusErr := s.orders.UpdateStatus(ctx, tx, ord.OrderNumber, models.OrderStatusScheduled)
		if statusErr != nil {
			err = appErrors.Wrap(statusErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark order scheduled")
			return nil, err
		}
		if affected == 0 {
			batchErr := &models.BulkAssignError{
				Succeeded: scheduled,
				Failed:    []models.BulkAssignFailure{{OrderNumber: ord.OrderNumber, Reason: "status update lost a concurrent race"}},
			}
			err = appErrors.Wrap(batchErr, appErrors.ErrPartialBatch.Code, appErrors.ErrPartialBatch.Status, "bulk assignment rolled back")
			return nil, err
		}
		scheduled = append(scheduled, ord.OrderNumber)
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit bulk assignment")
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	for range assignments {
		s.metrics.RecordAssignment(AssignOutcomeOK)
	}
	s.logger.Info("bulk assignment committed",
		zap.Int("orders", len(assignments)),
		zap.String("shift", string(shift)),
		zap.String("date", req.Date))

	return &dto.BulkAssignResponse{Assignments: assignments, Scheduled: scheduled}, nil
}

// Board runs a roll-forward pass and returns every assignment in the window
// annotated for display. The window starts on the Monday of the anchor date's
// week.
func (s *ScheduleService) Board(ctx context.Context, anchor time.Time, days int) (*dto.BoardResponse, error) {
	if days <= 0 {
		days = 7
	}
	rolled, err := s.rollforward.Run(ctx)
	if err != nil {
		return nil, err
	}
	rolledIDs := make(map[string]bool, len(rolled))
	for _, a := range rolled {
		rolledIDs[a.ID] = true
	}

	start := mondayOf(anchor)
	end := start.AddDate(0, 0, days)
	assignments, _, err := s.slots.List(ctx, models.SlotAssignmentFilter{
		DateFrom: &start,
		DateTo:   &end,
		PageSize: 500,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load board assignments")
	}

	today := s.now()
	views := make([]models.SlotAssignmentView, 0, len(assignments))
	for _, a := range assignments {
		a.IsRollForward = rolledIDs[a.ID]
		views = append(views, BuildSlotView(a, today))
	}

	return &dto.BoardResponse{
		Assignments: views,
		RolledJobs:  rolled,
		WindowStart: start,
		WindowDays:  days,
	}, nil
}

// LockedSchedule returns every locked assignment, the dataset behind the
// production schedule viewer and its exports.
func (s *ScheduleService) LockedSchedule(ctx context.Context) ([]models.SlotAssignmentView, error) {
	assignments, _, err := s.slots.List(ctx, models.SlotAssignmentFilter{LockedOnly: true, PageSize: 500})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load locked schedule")
	}
	today := s.now()
	views := make([]models.SlotAssignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, BuildSlotView(a, today))
	}
	return views, nil
}

// mondayOf returns the Monday of the week containing t, at UTC midnight.
func mondayOf(t time.Time) time.Time {
	day := dayOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
