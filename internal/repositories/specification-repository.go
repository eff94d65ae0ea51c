package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

type SpecificationRepositoryInterface interface {
	FindSpecification(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Specification, error)
	// ListByType возвращает шаблоны типа в порядке создания.
	ListByType(ctx context.Context, scope types.TenantScope, typeID uint64) ([]entities.Specification, error)
	CreateSpecification(ctx context.Context, s entities.Specification) (uint64, error)
	UpdateSpecification(ctx context.Context, scope types.TenantScope, id uint64, name string, specs entities.Characteristics) error
	DeleteSpecification(ctx context.Context, scope types.TenantScope, id uint64) error
}

type SpecificationRepository struct {
	storage *pgxpool.Pool
}

func NewSpecificationRepository(storage *pgxpool.Pool) SpecificationRepositoryInterface {
	return &SpecificationRepository{storage: storage}
}

func (r *SpecificationRepository) FindSpecification(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Specification, error) {
	b := psql.Select("id", "university_id", "type_id", "name", "specs", "author_id", "created_at", "updated_at").
		From("specifications").
		Where("id = ?", id)
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var s entities.Specification
	var rawSpecs []byte
	err = r.storage.QueryRow(ctx, query, args...).
		Scan(&s.ID, &s.UniversityID, &s.TypeID, &s.Name, &rawSpecs, &s.AuthorID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска шаблона характеристик: %w", err)
	}

	if err := json.Unmarshal(rawSpecs, &s.Specs); err != nil {
		return nil, fmt.Errorf("повреждённый JSON характеристик шаблона %d: %w", s.ID, err)
	}
	return &s, nil
}

func (r *SpecificationRepository) ListByType(ctx context.Context, scope types.TenantScope, typeID uint64) ([]entities.Specification, error) {
	b := psql.Select("id", "university_id", "type_id", "name", "specs", "author_id", "created_at", "updated_at").
		From("specifications").
		Where("type_id = ?", typeID).
		OrderBy("created_at", "id")
	b = applyScope(b, scope, "university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения шаблонов типа %d: %w", typeID, err)
	}
	defer rows.Close()

	list := make([]entities.Specification, 0)
	for rows.Next() {
		var s entities.Specification
		var rawSpecs []byte
		if err := rows.Scan(&s.ID, &s.UniversityID, &s.TypeID, &s.Name, &rawSpecs, &s.AuthorID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawSpecs, &s.Specs); err != nil {
			return nil, fmt.Errorf("повреждённый JSON характеристик шаблона %d: %w", s.ID, err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SpecificationRepository) CreateSpecification(ctx context.Context, s entities.Specification) (uint64, error) {
	rawSpecs, err := json.Marshal(s.Specs)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации характеристик: %w", err)
	}

	var id uint64
	err = r.storage.QueryRow(ctx,
		`INSERT INTO specifications (university_id, type_id, name, specs, author_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.UniversityID, s.TypeID, s.Name, rawSpecs, s.AuthorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания шаблона характеристик: %w", err)
	}
	return id, nil
}

func (r *SpecificationRepository) UpdateSpecification(ctx context.Context, scope types.TenantScope, id uint64, name string, specs entities.Characteristics) error {
	rawSpecs, err := json.Marshal(specs)
	if err != nil {
		return fmt.Errorf("ошибка сериализации характеристик: %w", err)
	}

	query := `UPDATE specifications SET name = $1, specs = $2, updated_at = NOW() WHERE id = $3`
	args := []interface{}{name, rawSpecs, id}
	if !scope.Global {
		query += ` AND university_id = $4`
		args = append(args, scope.UniversityID)
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

func (r *SpecificationRepository) DeleteSpecification(ctx context.Context, scope types.TenantScope, id uint64) error {
	query := `DELETE FROM specifications WHERE id = $1`
	args := []interface{}{id}
	if !scope.Global {
		query += ` AND university_id = $2`
		args = append(args, scope.UniversityID)
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
