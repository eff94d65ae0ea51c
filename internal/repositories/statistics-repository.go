package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/pkg/types"
)

// StatisticsRepositoryInterface — агрегаты по таблице техники.
// Только чтение; все методы применяют тенантный предикат.
type StatisticsRepositoryInterface interface {
	GetOverallCounts(ctx context.Context, scope types.TenantScope) (total uint64, active uint64, disposed uint64, err error)
	GetCountByStatus(ctx context.Context, scope types.TenantScope) (map[string]uint64, error)
	GetCountByType(ctx context.Context, scope types.TenantScope) (map[string]uint64, error)
	// GetCountByLocation группирует по классу размещения:
	// room / warehouse / unplaced.
	GetCountByLocation(ctx context.Context, scope types.TenantScope) (map[string]uint64, error)
	GetTopTypes(ctx context.Context, scope types.TenantScope, limit uint64) (map[string]uint64, error)
}

type StatisticsRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewStatisticsRepository(storage *pgxpool.Pool, logger *zap.Logger) StatisticsRepositoryInterface {
	return &StatisticsRepository{storage: storage, logger: logger}
}

func (r *StatisticsRepository) GetOverallCounts(ctx context.Context, scope types.TenantScope) (uint64, uint64, uint64, error) {
	b := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status != '"+entities.StatusDisposed+"')",
		"COUNT(*) FILTER (WHERE status = '"+entities.StatusDisposed+"')",
	).From("equipments")
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return 0, 0, 0, err
	}

	var total, active, disposed uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&total, &active, &disposed); err != nil {
		return 0, 0, 0, fmt.Errorf("ошибка подсчета общих показателей: %w", err)
	}
	return total, active, disposed, nil
}

func (r *StatisticsRepository) GetCountByStatus(ctx context.Context, scope types.TenantScope) (map[string]uint64, error) {
	b := psql.Select("status", "COUNT(*)").
		From("equipments").
		GroupBy("status")
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	return r.countByGroup(ctx, query, args, err)
}

func (r *StatisticsRepository) GetCountByType(ctx context.Context, scope types.TenantScope) (map[string]uint64, error) {
	b := psql.Select("et.name", "COUNT(*)").
		From("equipments e").
		Join("equipment_types et ON et.id = e.type_id").
		GroupBy("et.name")
	b = applyScope(b, scope, "e.university_id")

	query, args, err := b.ToSql()
	return r.countByGroup(ctx, query, args, err)
}

func (r *StatisticsRepository) GetCountByLocation(ctx context.Context, scope types.TenantScope) (map[string]uint64, error) {
	b := psql.Select(
		`CASE
			WHEN room_id IS NOT NULL THEN 'room'
			WHEN warehouse_id IS NOT NULL THEN 'warehouse'
			ELSE 'unplaced'
		END AS location_class`,
		"COUNT(*)",
	).From("equipments").
		GroupBy("location_class")
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	return r.countByGroup(ctx, query, args, err)
}

func (r *StatisticsRepository) GetTopTypes(ctx context.Context, scope types.TenantScope, limit uint64) (map[string]uint64, error) {
	b := psql.Select("et.name", "COUNT(*) AS cnt").
		From("equipments e").
		Join("equipment_types et ON et.id = e.type_id").
		Where("e.status != ?", entities.StatusDisposed).
		GroupBy("et.name").
		OrderBy("cnt DESC").
		Limit(limit)
	b = applyScope(b, scope, "e.university_id")

	query, args, err := b.ToSql()
	return r.countByGroup(ctx, query, args, err)
}

func (r *StatisticsRepository) countByGroup(ctx context.Context, query string, args []interface{}, buildErr error) (map[string]uint64, error) {
	if buildErr != nil {
		return nil, buildErr
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка агрегирующего запроса: %w", err)
	}
	defer rows.Close()

	out := make(map[string]uint64)
	for rows.Next() {
		var key string
		var count uint64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		out[key] = count
	}
	return out, rows.Err()
}
