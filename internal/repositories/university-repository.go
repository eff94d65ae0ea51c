package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type UniversityRepositoryInterface interface {
	FindUniversity(ctx context.Context, id uint64) (*entities.University, error)
	GetUniversities(ctx context.Context, limit uint64, offset uint64) ([]entities.University, uint64, error)
	CreateUniversity(ctx context.Context, u entities.University) (uint64, error)
	SetActive(ctx context.Context, id uint64, active bool) error
	// ResolveTenantKey возвращает id тенанта и флаг активности по ключу
	// из заголовка X-Tenant-Key.
	ResolveTenantKey(ctx context.Context, key string) (uint64, bool, error)
}

type UniversityRepository struct {
	storage *pgxpool.Pool
}

func NewUniversityRepository(storage *pgxpool.Pool) UniversityRepositoryInterface {
	return &UniversityRepository{storage: storage}
}

func (r *UniversityRepository) ResolveTenantKey(ctx context.Context, key string) (uint64, bool, error) {
	var id uint64
	var active bool
	err := r.storage.QueryRow(ctx,
		`SELECT id, is_active FROM universities WHERE key = $1`, key,
	).Scan(&id, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, apperrors.ErrNotFound
		}
		return 0, false, fmt.Errorf("ошибка поиска тенанта по ключу: %w", err)
	}
	return id, active, nil
}

func (r *UniversityRepository) FindUniversity(ctx context.Context, id uint64) (*entities.University, error) {
	var u entities.University
	err := r.storage.QueryRow(ctx,
		`SELECT id, key, name, address, is_active, created_at, updated_at
		 FROM universities WHERE id = $1`, id,
	).Scan(&u.ID, &u.Key, &u.Name, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UniversityRepository) GetUniversities(ctx context.Context, limit uint64, offset uint64) ([]entities.University, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM universities`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета университетов: %w", err)
	}

	rows, err := r.storage.Query(ctx,
		`SELECT id, key, name, address, is_active, created_at, updated_at
		 FROM universities ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка университетов: %w", err)
	}
	defer rows.Close()

	list := make([]entities.University, 0)
	for rows.Next() {
		var u entities.University
		if err := rows.Scan(&u.ID, &u.Key, &u.Name, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

func (r *UniversityRepository) CreateUniversity(ctx context.Context, u entities.University) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO universities (key, name, address, is_active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Key, u.Name, u.Address, u.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания университета: %w", err)
	}
	return id, nil
}

func (r *UniversityRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE universities SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
