package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

type LocationRepositoryInterface interface {
	FindRoom(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Room, error)
	FindWarehouse(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Warehouse, error)
	// GetMainWarehouse возвращает главный склад тенанта: на него попадает
	// вся вновь создаваемая техника.
	GetMainWarehouse(ctx context.Context, universityID uint64) (*entities.Warehouse, error)
	CreateWarehouse(ctx context.Context, w entities.Warehouse) (uint64, error)
}

type LocationRepository struct {
	storage *pgxpool.Pool
}

func NewLocationRepository(storage *pgxpool.Pool) LocationRepositoryInterface {
	return &LocationRepository{storage: storage}
}

func (r *LocationRepository) FindRoom(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Room, error) {
	b := psql.Select("r.id", "r.building_id", "r.floor_id", "r.number", "r.name").
		From("rooms r").
		Join("buildings b ON b.id = r.building_id").
		Where("r.id = ?", id)
	b = applyScope(b, scope, "b.university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var room entities.Room
	err = r.storage.QueryRow(ctx, query, args...).
		Scan(&room.ID, &room.BuildingID, &room.FloorID, &room.Number, &room.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска помещения: %w", err)
	}
	return &room, nil
}

func (r *LocationRepository) FindWarehouse(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Warehouse, error) {
	b := psql.Select("id", "university_id", "name", "address", "is_main").
		From("warehouses").
		Where("id = ?", id)
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var w entities.Warehouse
	err = r.storage.QueryRow(ctx, query, args...).
		Scan(&w.ID, &w.UniversityID, &w.Name, &w.Address, &w.IsMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска склада: %w", err)
	}
	return &w, nil
}

func (r *LocationRepository) GetMainWarehouse(ctx context.Context, universityID uint64) (*entities.Warehouse, error) {
	var w entities.Warehouse
	err := r.storage.QueryRow(ctx,
		`SELECT id, university_id, name, address, is_main
		 FROM warehouses WHERE university_id = $1 AND is_main = TRUE
		 ORDER BY id LIMIT 1`, universityID,
	).Scan(&w.ID, &w.UniversityID, &w.Name, &w.Address, &w.IsMain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска главного склада: %w", err)
	}
	return &w, nil
}

func (r *LocationRepository) CreateWarehouse(ctx context.Context, w entities.Warehouse) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO warehouses (university_id, name, address, is_main)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		w.UniversityID, w.Name, w.Address, w.IsMain,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания склада: %w", err)
	}
	return id, nil
}
