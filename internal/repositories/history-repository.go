package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// HistoryRepositoryInterface пишет append-only записи истории.
// Методы вставки принимают транзакцию: запись истории коммитится
// только вместе со сменой статуса техники.
type HistoryRepositoryInterface interface {
	InsertMovement(ctx context.Context, tx pgx.Tx, m entities.MovementHistory) (uint64, error)
	InsertRepair(ctx context.Context, tx pgx.Tx, rep entities.Repair) (uint64, error)
	// CloseOpenRepair закрывает последний открытый ремонт техники с
	// указанным итоговым статусом. Возвращает id закрытой записи.
	CloseOpenRepair(ctx context.Context, tx pgx.Tx, equipmentID uint64, finalStatus string, notes string) (uint64, error)
	// FindOpenRepair возвращает открытый ремонт техники, если он есть.
	FindOpenRepair(ctx context.Context, tx pgx.Tx, equipmentID uint64) (*entities.Repair, error)
	InsertDisposal(ctx context.Context, tx pgx.Tx, d entities.Disposal) (uint64, error)

	ListMovements(ctx context.Context, scope types.TenantScope, equipmentID uint64, limit uint64, offset uint64) ([]entities.MovementHistory, uint64, error)
	ListRepairs(ctx context.Context, scope types.TenantScope, equipmentID uint64) ([]entities.Repair, error)
	FindDisposal(ctx context.Context, scope types.TenantScope, equipmentID uint64) (*entities.Disposal, error)
}

type HistoryRepository struct {
	storage *pgxpool.Pool
}

func NewHistoryRepository(storage *pgxpool.Pool) HistoryRepositoryInterface {
	return &HistoryRepository{storage: storage}
}

func (r *HistoryRepository) q(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *HistoryRepository) InsertMovement(ctx context.Context, tx pgx.Tx, m entities.MovementHistory) (uint64, error) {
	var id uint64
	err := r.q(tx).QueryRow(ctx,
		`INSERT INTO movement_histories
			(university_id, equipment_id, from_status, to_status,
			 from_room_id, to_room_id, warehouse_id, actor_id, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		m.UniversityID, m.EquipmentID, m.FromStatus, m.ToStatus,
		m.FromRoomID, m.ToRoomID, m.WarehouseID, m.ActorID, m.Note,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи истории перемещений: %w", err)
	}
	return id, nil
}

func (r *HistoryRepository) InsertRepair(ctx context.Context, tx pgx.Tx, rep entities.Repair) (uint64, error) {
	var id uint64
	err := r.q(tx).QueryRow(ctx,
		`INSERT INTO repairs
			(university_id, equipment_id, status, notes, original_room_id, actor_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		rep.UniversityID, rep.EquipmentID, rep.Status, rep.Notes, rep.OriginalRoomID, rep.ActorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи о ремонте: %w", err)
	}
	return id, nil
}

func (r *HistoryRepository) FindOpenRepair(ctx context.Context, tx pgx.Tx, equipmentID uint64) (*entities.Repair, error) {
	var rep entities.Repair
	err := r.q(tx).QueryRow(ctx,
		`SELECT id, university_id, equipment_id, status, notes, original_room_id, actor_id, start_date, end_date
		 FROM repairs
		 WHERE equipment_id = $1 AND status = $2
		 ORDER BY start_date DESC LIMIT 1`,
		equipmentID, entities.RepairInProgress,
	).Scan(&rep.ID, &rep.UniversityID, &rep.EquipmentID, &rep.Status, &rep.Notes,
		&rep.OriginalRoomID, &rep.ActorID, &rep.StartDate, &rep.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска открытого ремонта: %w", err)
	}
	return &rep, nil
}

func (r *HistoryRepository) CloseOpenRepair(ctx context.Context, tx pgx.Tx, equipmentID uint64, finalStatus string, notes string) (uint64, error) {
	var id uint64
	err := r.q(tx).QueryRow(
		ctx,
		`UPDATE repairs
		 SET status = $1,
		     notes = CASE WHEN $2 = '' THEN notes ELSE notes || ' ' || $2 END,
		     end_date = $3
		 WHERE id = (
			SELECT id FROM repairs
			WHERE equipment_id = $4 AND status = $5
			ORDER BY start_date DESC LIMIT 1
		 )
		 RETURNING id`,
		finalStatus, notes, time.Now(), equipmentID, entities.RepairInProgress,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка закрытия ремонта: %w", err)
	}
	return id, nil
}

func (r *HistoryRepository) InsertDisposal(ctx context.Context, tx pgx.Tx, d entities.Disposal) (uint64, error) {
	var id uint64
	err := r.q(tx).QueryRow(ctx,
		`INSERT INTO disposals
			(university_id, equipment_id, reason, notes, original_room_id, actor_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		d.UniversityID, d.EquipmentID, d.Reason, d.Notes, d.OriginalRoomID, d.ActorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи акта списания: %w", err)
	}
	return id, nil
}

func (r *HistoryRepository) ListMovements(ctx context.Context, scope types.TenantScope, equipmentID uint64, limit uint64, offset uint64) ([]entities.MovementHistory, uint64, error) {
	countB := applyScope(
		psql.Select("COUNT(*)").From("movement_histories").Where("equipment_id = ?", equipmentID),
		scope, "university_id")
	countQuery, countArgs, err := countB.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей истории: %w", err)
	}

	b := psql.Select("id", "university_id", "equipment_id", "from_status", "to_status",
		"from_room_id", "to_room_id", "warehouse_id", "actor_id", "note", "moved_at").
		From("movement_histories").
		Where("equipment_id = ?", equipmentID).
		OrderBy("moved_at DESC", "id DESC").
		Limit(limit).
		Offset(offset)
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения истории перемещений: %w", err)
	}
	defer rows.Close()

	list := make([]entities.MovementHistory, 0)
	for rows.Next() {
		var m entities.MovementHistory
		if err := rows.Scan(&m.ID, &m.UniversityID, &m.EquipmentID, &m.FromStatus, &m.ToStatus,
			&m.FromRoomID, &m.ToRoomID, &m.WarehouseID, &m.ActorID, &m.Note, &m.MovedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

func (r *HistoryRepository) ListRepairs(ctx context.Context, scope types.TenantScope, equipmentID uint64) ([]entities.Repair, error) {
	b := psql.Select("id", "university_id", "equipment_id", "status", "notes",
		"original_room_id", "actor_id", "start_date", "end_date").
		From("repairs").
		Where("equipment_id = ?", equipmentID).
		OrderBy("start_date DESC")
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей о ремонтах: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Repair, 0)
	for rows.Next() {
		var rep entities.Repair
		if err := rows.Scan(&rep.ID, &rep.UniversityID, &rep.EquipmentID, &rep.Status, &rep.Notes,
			&rep.OriginalRoomID, &rep.ActorID, &rep.StartDate, &rep.EndDate); err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

func (r *HistoryRepository) FindDisposal(ctx context.Context, scope types.TenantScope, equipmentID uint64) (*entities.Disposal, error) {
	b := psql.Select("id", "university_id", "equipment_id", "reason", "notes",
		"original_room_id", "actor_id", "disposal_date").
		From("disposals").
		Where("equipment_id = ?", equipmentID)
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var d entities.Disposal
	err = r.storage.QueryRow(ctx, query, args...).
		Scan(&d.ID, &d.UniversityID, &d.EquipmentID, &d.Reason, &d.Notes,
			&d.OriginalRoomID, &d.ActorID, &d.DisposalDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска акта списания: %w", err)
	}
	return &d, nil
}
