package lot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

const (
	lotsTable  = "parking_lots"
	slotsTable = "parking_slots"
)

var lotColumns = []string{
	"id",
	"name",
	"address",
	"price_per_hour",
	"available_slots",
	"created_at",
	"updated_at",
}

// Repository репозиторий парковок и мест в PostgreSQL
type Repository struct {
	db DBExecutor
	tx TxManager
}

// NewRepository создает новый экземпляр репозитория парковок
func NewRepository(db DBExecutor, tx TxManager) *Repository {
	return &Repository{db: db, tx: tx}
}

// Create создает парковку вместе со списком мест в одной транзакции
func (r *Repository) Create(ctx context.Context, lot *domain.Lot) (*domain.Lot, error) {
	lot.RecomputeAvailable()

	err := r.tx.Do(ctx, func(txCtx context.Context) error {
		executor := txmanager.GetExecutor(txCtx, r.db)

		query, args, err := psqlbuilder.Insert(lotsTable).
			Columns("id", "name", "address", "price_per_hour", "available_slots").
			Values(lot.ID, lot.Name, lot.Address, lot.PricePerHour, lot.AvailableSlots).
			Suffix("RETURNING created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Create - build insert lot query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(txCtx, query, args...).Scan(&lot.CreatedAt, &lot.UpdatedAt); err != nil {
			return fmt.Errorf("%w: Create - execute insert lot: %v", ErrExecQuery, err)
		}

		if len(lot.Slots) == 0 {
			return nil
		}

		slotsInsert := psqlbuilder.Insert(slotsTable).Columns("lot_id", "slot_number", "status", "position")
		for i, slot := range lot.Slots {
			slotsInsert = slotsInsert.Values(lot.ID, slot.SlotNumber, slot.Status, i+1)
		}

		query, args, err = slotsInsert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: Create - build insert slots query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: Create - execute insert slots: %v", ErrExecQuery, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lot, nil
}

// GetByID получает парковку со всеми местами
// Строка парковки и места читаются из одного снимка, чтобы available_slots совпадал со статусами мест
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	var lot *domain.Lot
	err := r.tx.DoSnapshot(ctx, func(txCtx context.Context) error {
		executor := txmanager.GetExecutor(txCtx, r.db)

		query, args, err := psqlbuilder.Select(lotColumns...).
			From(lotsTable).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
		}

		lot, err = scanLot(executor.QueryRowContext(txCtx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLotNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: GetByID - scan lot: %v", ErrScanRow, err)
		}

		slots, err := r.loadSlots(txCtx, executor, []string{id})
		if err != nil {
			return err
		}
		lot.Slots = slots[id]

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lot, nil
}

// List возвращает все парковки, новые сначала
func (r *Repository) List(ctx context.Context) ([]*domain.Lot, error) {
	var lots []*domain.Lot
	err := r.tx.DoSnapshot(ctx, func(txCtx context.Context) error {
		executor := txmanager.GetExecutor(txCtx, r.db)

		var err error
		lots, err = r.selectLots(txCtx, executor)
		if err != nil {
			return err
		}
		if len(lots) == 0 {
			return nil
		}

		ids := make([]string, 0, len(lots))
		for _, lot := range lots {
			ids = append(ids, lot.ID)
		}

		slots, err := r.loadSlots(txCtx, executor, ids)
		if err != nil {
			return err
		}
		for _, lot := range lots {
			lot.Slots = slots[lot.ID]
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lots, nil
}

func (r *Repository) selectLots(ctx context.Context, executor DBExecutor) ([]*domain.Lot, error) {
	query, args, err := psqlbuilder.Select(lotColumns...).
		From(lotsTable).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lots := make([]*domain.Lot, 0)
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan lot: %v", ErrScanRow, err)
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return lots, nil
}

// Update обновляет название, адрес и цену парковки
func (r *Repository) Update(ctx context.Context, lot *domain.Lot) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(lotsTable).
		Set("name", lot.Name).
		Set("address", lot.Address).
		Set("price_per_hour", lot.PricePerHour).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lot.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Update")
}

// Delete удаляет парковку; места удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(lotsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Delete")
}

// UpdateSlotStatus атомарно переводит место из статуса from в статус to
// и пересчитывает available_slots в той же транзакции.
// Строка парковки блокируется FOR UPDATE до изменения места: переходы разных мест одной парковки
// выполняются по очереди, и пересчет видит все зафиксированные изменения.
// Условие WHERE status = from гарантирует, что два конкурентных резервирования не пройдут одновременно.
//
// Ошибки:
// - ErrLotNotFound, ErrSlotNotFound - парковки или места нет
// - ErrStatusConflict - место существует, но не в статусе from
func (r *Repository) UpdateSlotStatus(ctx context.Context, lotID, slotNumber string, from, to domain.SlotStatus) error {
	return r.tx.Do(ctx, func(txCtx context.Context) error {
		executor := txmanager.GetExecutor(txCtx, r.db)

		if err := r.lockLot(txCtx, executor, lotID, "UpdateSlotStatus"); err != nil {
			return err
		}

		query, args, err := buildSlotTransitionQuery(lotID, slotNumber, from, to)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotStatus - build update slot query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(txCtx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotStatus - execute update slot: %v", ErrExecQuery, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotStatus - get rows affected: %v", ErrExecQuery, err)
		}
		if affected == 0 {
			return r.explainMissedTransition(txCtx, executor, lotID, slotNumber)
		}

		query, args, err = buildRecountQuery(lotID)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotStatus - build recount query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: UpdateSlotStatus - execute recount: %v", ErrExecQuery, err)
		}

		return nil
	})
}

// explainMissedTransition определяет, почему условное обновление не затронуло строк
// Вызывается после lockLot, поэтому парковка существует
func (r *Repository) explainMissedTransition(ctx context.Context, executor DBExecutor, lotID, slotNumber string) error {
	query, args, err := psqlbuilder.Select("status").
		From(slotsTable).
		Where(squirrel.Eq{"lot_id": lotID, "slot_number": slotNumber}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlotStatus - build select slot query: %v", ErrBuildQuery, err)
	}

	var status domain.SlotStatus
	err = executor.QueryRowContext(ctx, query, args...).Scan(&status)
	if err == nil {
		return ErrStatusConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: UpdateSlotStatus - scan slot status: %v", ErrScanRow, err)
	}

	return ErrSlotNotFound
}

// lockLot блокирует строку парковки до конца транзакции
func (r *Repository) lockLot(ctx context.Context, executor DBExecutor, lotID, op string) error {
	query, args, err := buildLockLotQuery(lotID)
	if err != nil {
		return fmt.Errorf("%w: %s - build lock lot query: %v", ErrBuildQuery, op, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrLotNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s - lock lot: %v", ErrScanRow, op, err)
	}

	return nil
}

func buildLockLotQuery(lotID string) (string, []interface{}, error) {
	return psqlbuilder.Select("1").
		From(lotsTable).
		Where(squirrel.Eq{"id": lotID}).
		Suffix("FOR UPDATE").
		ToSql()
}

func buildSlotTransitionQuery(lotID, slotNumber string, from, to domain.SlotStatus) (string, []interface{}, error) {
	return psqlbuilder.Update(slotsTable).
		Set("status", to).
		Where(squirrel.Eq{"lot_id": lotID, "slot_number": slotNumber, "status": from}).
		ToSql()
}

func buildRecountQuery(lotID string) (string, []interface{}, error) {
	return psqlbuilder.Update(lotsTable).
		Set("available_slots", squirrel.Expr(
			"(SELECT COUNT(*) FROM "+slotsTable+" WHERE lot_id = ? AND status = ?)",
			lotID, domain.SlotAvailable,
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lotID}).
		ToSql()
}

// loadSlots загружает места для набора парковок, сгруппированные по lot_id
func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, lotIDs []string) (map[string][]domain.Slot, error) {
	query, args, err := psqlbuilder.Select("lot_id", "slot_number", "status").
		From(slotsTable).
		Where(squirrel.Eq{"lot_id": lotIDs}).
		OrderBy("lot_id", "position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[string][]domain.Slot, len(lotIDs))
	for rows.Next() {
		var (
			lotID string
			slot  domain.Slot
		)
		if err := rows.Scan(&lotID, &slot.SlotNumber, &slot.Status); err != nil {
			return nil, fmt.Errorf("%w: loadSlots - scan slot: %v", ErrScanRow, err)
		}
		result[lotID] = append(result[lotID], slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLot(row rowScanner) (*domain.Lot, error) {
	var lot domain.Lot
	err := row.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Address,
		&lot.PricePerHour,
		&lot.AvailableSlots,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func checkAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrLotNotFound
	}
	return nil
}
