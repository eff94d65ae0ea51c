package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

type EquipmentTypeRepositoryInterface interface {
	GetEquipmentTypes(ctx context.Context, scope types.TenantScope, limit uint64, offset uint64) ([]entities.EquipmentType, uint64, error)
	FindEquipmentType(ctx context.Context, scope types.TenantScope, id uint64) (*entities.EquipmentType, error)
	CreateEquipmentType(ctx context.Context, et entities.EquipmentType) (uint64, error)
	UpdateEquipmentType(ctx context.Context, scope types.TenantScope, id uint64, name string, slug string) error
	DeleteEquipmentType(ctx context.Context, scope types.TenantScope, id uint64) error
	// HasSpecifications сообщает, ссылается ли на тип хотя бы один шаблон:
	// slug такого типа менять нельзя.
	HasSpecifications(ctx context.Context, id uint64) (bool, error)
}

type EquipmentTypeRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentTypeRepository(storage *pgxpool.Pool) EquipmentTypeRepositoryInterface {
	return &EquipmentTypeRepository{storage: storage}
}

func (r *EquipmentTypeRepository) GetEquipmentTypes(ctx context.Context, scope types.TenantScope, limit uint64, offset uint64) ([]entities.EquipmentType, uint64, error) {
	countB := applyScope(psql.Select("COUNT(*)").From("equipment_types"), scope, "university_id")
	countQuery, countArgs, err := countB.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета типов техники: %w", err)
	}

	b := psql.Select("id", "university_id", "name", "slug", "created_at", "updated_at").
		From("equipment_types").
		OrderBy("id").
		Limit(limit).
		Offset(offset)
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка типов техники: %w", err)
	}
	defer rows.Close()

	list := make([]entities.EquipmentType, 0)
	for rows.Next() {
		var et entities.EquipmentType
		if err := rows.Scan(&et.ID, &et.UniversityID, &et.Name, &et.Slug, &et.CreatedAt, &et.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, et)
	}
	return list, total, rows.Err()
}

func (r *EquipmentTypeRepository) FindEquipmentType(ctx context.Context, scope types.TenantScope, id uint64) (*entities.EquipmentType, error) {
	b := psql.Select("id", "university_id", "name", "slug", "created_at", "updated_at").
		From("equipment_types").
		Where("id = ?", id)
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var et entities.EquipmentType
	err = r.storage.QueryRow(ctx, query, args...).
		Scan(&et.ID, &et.UniversityID, &et.Name, &et.Slug, &et.CreatedAt, &et.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска типа техники: %w", err)
	}
	return &et, nil
}

func (r *EquipmentTypeRepository) CreateEquipmentType(ctx context.Context, et entities.EquipmentType) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO equipment_types (university_id, name, slug)
		 VALUES ($1, $2, $3) RETURNING id`,
		et.UniversityID, et.Name, et.Slug,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.NewConflictError("Тип техники со slug %q уже существует", et.Slug)
		}
		return 0, fmt.Errorf("ошибка создания типа техники: %w", err)
	}
	return id, nil
}

func (r *EquipmentTypeRepository) UpdateEquipmentType(ctx context.Context, scope types.TenantScope, id uint64, name string, slug string) error {
	b := psql.Update("equipment_types").
		Set("name", name).
		Set("slug", slug).
		Set("updated_at", sq.Expr("NOW()")).
		Where("id = ?", id)
	if cond := scopeCond(scope, "university_id"); cond != nil {
		b = b.Where(cond)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("Тип техники со slug %q уже существует", slug)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentTypeRepository) DeleteEquipmentType(ctx context.Context, scope types.TenantScope, id uint64) error {
	b := psql.Delete("equipment_types").Where("id = ?", id)
	if cond := scopeCond(scope, "university_id"); cond != nil {
		b = b.Where(cond)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentTypeRepository) HasSpecifications(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM specifications WHERE type_id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// isUniqueViolation распознаёт нарушение уникального ограничения (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
