package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

const (
	bookingsTable = "bookings"

	// Частичный уникальный индекс (lot_id, slot_number) WHERE status IN ('active', 'extended')
	holdingSlotConstraint = "bookings_holding_slot_idx"
	primaryKeyConstraint  = "bookings_pkey"

	pqUniqueViolation = "23505"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"lot_id",
	"slot_number",
	"vehicle_number",
	"start_time",
	"end_time",
	"duration_hours",
	"price_per_hour",
	"total_amount",
	"status",
	"payment_id",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование; ID генерируется на стороне сервиса
// Если на место уже есть active/extended бронирование, индекс вернет unique_violation -> ErrSlotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"id",
			"user_id",
			"lot_id",
			"slot_number",
			"vehicle_number",
			"start_time",
			"end_time",
			"duration_hours",
			"price_per_hour",
			"total_amount",
			"status",
			"payment_id",
		).
		Values(
			booking.ID,
			booking.UserID,
			booking.LotID,
			booking.SlotNumber,
			null.StringFromPtr(booking.VehicleNumber),
			booking.StartTime,
			booking.EndTime,
			booking.DurationHours,
			booking.PricePerHour,
			booking.TotalAmount,
			booking.Status,
			null.StringFromPtr(booking.PaymentID),
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// Update сохраняет изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("end_time", booking.EndTime).
		Set("duration_hours", booking.DurationHours).
		Set("total_amount", booking.TotalAmount).
		Set("status", booking.Status).
		Set("payment_id", null.StringFromPtr(booking.PaymentID)).
		Set("cancelled_at", null.TimeFromPtr(booking.CancelledAt)).
		Set("completed_at", null.TimeFromPtr(booking.CompletedAt)).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Find возвращает бронирования по фильтру, новые сначала
//
// Примеры:
//
// 1. История пользователя:
//    filter := domain.BookingFilter{UserID: &userID}
//
// 2. Просроченные бронирования для sweep:
//    filter := domain.BookingFilter{Statuses: domain.HoldingStatuses, EndBefore: &now}
func (r *Repository) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := buildFindQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Find - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Find - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// Count возвращает количество бронирований по фильтру
func (r *Repository) Count(ctx context.Context, filter domain.BookingFilter) (int, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(bookingsTable), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

func buildFindQuery(filter domain.BookingFilter) (string, []interface{}, error) {
	return applyFilter(psqlbuilder.Select(bookingColumns...).From(bookingsTable), filter).
		OrderBy("created_at DESC").
		ToSql()
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.BookingFilter) squirrel.SelectBuilder {
	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.LotID != nil {
		builder = builder.Where(squirrel.Eq{"lot_id": *filter.LotID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.EndBefore != nil {
		builder = builder.Where(squirrel.Lt{"end_time": *filter.EndBefore})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking       domain.Booking
		vehicleNumber null.String
		paymentID     null.String
		cancelledAt   null.Time
		completedAt   null.Time
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.LotID,
		&booking.SlotNumber,
		&vehicleNumber,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationHours,
		&booking.PricePerHour,
		&booking.TotalAmount,
		&booking.Status,
		&paymentID,
		&cancelledAt,
		&completedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.VehicleNumber = vehicleNumber.Ptr()
	booking.PaymentID = paymentID.Ptr()
	booking.CancelledAt = cancelledAt.Ptr()
	booking.CompletedAt = completedAt.Ptr()

	return &booking, nil
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return nil
	}

	switch pqErr.Constraint {
	case holdingSlotConstraint:
		return ErrSlotTaken
	case primaryKeyConstraint:
		return ErrDuplicateID
	default:
		return nil
	}
}
