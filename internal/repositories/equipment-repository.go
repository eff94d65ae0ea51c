package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const equipmentColumns = "e.id, e.university_id, e.type_id, e.specification_id, e.room_id, e.warehouse_id, " +
	"e.name, e.description, e.status, e.is_active, e.inn, e.unique_tag, e.specs, e.author_id, e.created_at"

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, scope types.TenantScope, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Equipment, error)
	// FindEquipmentForUpdate читает строку под блокировкой FOR UPDATE.
	// Вызывается только внутри транзакции перехода жизненного цикла.
	FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, scope types.TenantScope, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, scope types.TenantScope, id uint64, name *string, description *string, inn *string, isActive *bool) error
	DeleteEquipment(ctx context.Context, scope types.TenantScope, id uint64) error
	// ApplyTransition записывает новый статус и размещение одной строкой.
	ApplyTransition(ctx context.Context, tx pgx.Tx, id uint64, status string, roomID *uint64, warehouseID *uint64) error
	// Scan ищет сначала по инвентарному номеру, затем по unique_tag.
	Scan(ctx context.Context, scope types.TenantScope, identifier string) (*entities.Equipment, error)
	// FindExistingInns возвращает номера из inns, уже занятые в тенанте.
	FindExistingInns(ctx context.Context, tx pgx.Tx, universityID uint64, inns []string) (map[string]uint64, error)
	UpdateInn(ctx context.Context, tx pgx.Tx, scope types.TenantScope, id uint64, inn string) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

// q выбирает исполнителя запроса: транзакцию, если она передана,
// иначе общий пул.
func (r *EquipmentRepository) q(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanEquipmentRow(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var rawSpecs []byte
	err := row.Scan(
		&e.ID, &e.UniversityID, &e.TypeID, &e.SpecificationID, &e.RoomID, &e.WarehouseID,
		&e.Name, &e.Description, &e.Status, &e.IsActive, &e.Inn, &e.UniqueTag,
		&rawSpecs, &e.AuthorID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(rawSpecs, &e.Specs); err != nil {
		return nil, fmt.Errorf("повреждённый JSON характеристик техники %d: %w", e.ID, err)
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, scope types.TenantScope, filter types.Filter) ([]entities.Equipment, uint64, error) {
	base := psql.Select().From("equipments e")
	base = applyScope(base, scope, "e.university_id")

	if status, ok := filter.Filter["status"]; ok {
		base = base.Where(sq.Eq{"e.status": status})
	}
	if typeID, ok := filter.Filter["type_id"]; ok {
		base = base.Where(sq.Eq{"e.type_id": typeID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"e.name": like},
			sq.ILike{"e.inn": like},
		})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета техники: %w", err)
	}

	expandType := hasExpand(filter.Expand, "equipment_type")
	expandRoom := hasExpand(filter.Expand, "room")
	expandWarehouse := hasExpand(filter.Expand, "warehouse")

	listB := psql.Select(equipmentColumns).From("equipments e")
	listB = applyScope(listB, scope, "e.university_id")
	if status, ok := filter.Filter["status"]; ok {
		listB = listB.Where(sq.Eq{"e.status": status})
	}
	if typeID, ok := filter.Filter["type_id"]; ok {
		listB = listB.Where(sq.Eq{"e.type_id": typeID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		listB = listB.Where(sq.Or{
			sq.ILike{"e.name": like},
			sq.ILike{"e.inn": like},
		})
	}
	if expandType {
		listB = listB.Columns("et.id", "et.name", "et.slug").
			LeftJoin("equipment_types et ON et.id = e.type_id")
	}
	if expandRoom {
		listB = listB.Columns("r.id", "r.number", "r.name").
			LeftJoin("rooms r ON r.id = e.room_id")
	}
	if expandWarehouse {
		listB = listB.Columns("w.id", "w.name", "w.is_main").
			LeftJoin("warehouses w ON w.id = e.warehouse_id")
	}
	listB = listB.OrderBy("e.created_at DESC", "e.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	query, args, err := listB.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка техники: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		var e entities.Equipment
		var rawSpecs []byte

		dest := []interface{}{
			&e.ID, &e.UniversityID, &e.TypeID, &e.SpecificationID, &e.RoomID, &e.WarehouseID,
			&e.Name, &e.Description, &e.Status, &e.IsActive, &e.Inn, &e.UniqueTag,
			&rawSpecs, &e.AuthorID, &e.CreatedAt,
		}

		var etID, roomID, whID *uint64
		var etName, etSlug, roomNumber, roomName, whName *string
		var whIsMain *bool
		if expandType {
			dest = append(dest, &etID, &etName, &etSlug)
		}
		if expandRoom {
			dest = append(dest, &roomID, &roomNumber, &roomName)
		}
		if expandWarehouse {
			dest = append(dest, &whID, &whName, &whIsMain)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования техники в списке: %w", err)
		}
		if err := json.Unmarshal(rawSpecs, &e.Specs); err != nil {
			return nil, 0, fmt.Errorf("повреждённый JSON характеристик техники %d: %w", e.ID, err)
		}

		if expandType && etID != nil {
			e.EquipmentType = &entities.EquipmentType{ID: *etID, Name: *etName, Slug: *etSlug}
		}
		if expandRoom && roomID != nil {
			e.Room = &entities.Room{ID: *roomID, Number: *roomNumber, Name: *roomName}
		}
		if expandWarehouse && whID != nil {
			e.Warehouse = &entities.Warehouse{ID: *whID, Name: *whName, IsMain: *whIsMain}
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func hasExpand(expand []string, field string) bool {
	for _, e := range expand {
		if e == field {
			return true
		}
	}
	return false
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, scope types.TenantScope, id uint64) (*entities.Equipment, error) {
	b := psql.Select(equipmentColumns).From("equipments e").Where("e.id = ?", id)
	b = applyScope(b, scope, "e.university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipmentRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, scope types.TenantScope, id uint64) (*entities.Equipment, error) {
	b := psql.Select(equipmentColumns).From("equipments e").
		Where("e.id = ?", id).
		Suffix("FOR UPDATE")
	b = applyScope(b, scope, "e.university_id")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipmentRow(r.q(tx).QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	rawSpecs, err := json.Marshal(e.Specs)
	if err != nil {
		return 0, fmt.Errorf("ошибка сериализации характеристик: %w", err)
	}

	var id uint64
	err = r.q(tx).QueryRow(ctx,
		`INSERT INTO equipments
			(university_id, type_id, specification_id, room_id, warehouse_id,
			 name, description, status, is_active, inn, unique_tag, specs, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		e.UniversityID, e.TypeID, e.SpecificationID, e.RoomID, e.WarehouseID,
		e.Name, e.Description, e.Status, e.IsActive, e.Inn, e.UniqueTag, rawSpecs, e.AuthorID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			inn := ""
			if e.Inn != nil {
				inn = *e.Inn
			}
			return 0, apperrors.NewConflictError("Инвентарный номер %q уже занят", inn)
		}
		return 0, fmt.Errorf("ошибка создания техники: %w", err)
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, scope types.TenantScope, id uint64, name *string, description *string, inn *string, isActive *bool) error {
	b := psql.Update("equipments").Where("id = ?", id)
	if cond := scopeCond(scope, "university_id"); cond != nil {
		b = b.Where(cond)
	}

	changed := false
	if name != nil {
		b = b.Set("name", *name)
		changed = true
	}
	if description != nil {
		b = b.Set("description", *description)
		changed = true
	}
	if inn != nil {
		b = b.Set("inn", *inn)
		changed = true
	}
	if isActive != nil {
		b = b.Set("is_active", *isActive)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := b.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("Инвентарный номер уже занят")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, scope types.TenantScope, id uint64) error {
	b := psql.Delete("equipments").Where("id = ?", id)
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

func (r *EquipmentRepository) ApplyTransition(ctx context.Context, tx pgx.Tx, id uint64, status string, roomID *uint64, warehouseID *uint64) error {
	tag, err := r.q(tx).Exec(ctx,
		`UPDATE equipments SET status = $1, room_id = $2, warehouse_id = $3 WHERE id = $4`,
		status, roomID, warehouseID, id)
	if err != nil {
		return fmt.Errorf("ошибка применения перехода: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) Scan(ctx context.Context, scope types.TenantScope, identifier string) (*entities.Equipment, error) {
	// Сначала точное совпадение по инвентарному номеру.
	b := psql.Select(equipmentColumns).From("equipments e").Where("e.inn = ?", identifier)
	b = applyScope(b, scope, "e.university_id")
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	e, err := scanEquipmentRow(r.storage.QueryRow(ctx, query, args...))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Затем по unique_tag.
	b = psql.Select(equipmentColumns).From("equipments e").Where("e.unique_tag::text = ?", identifier)
	b = applyScope(b, scope, "e.university_id")
	query, args, err = b.ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipmentRow(r.storage.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) FindExistingInns(ctx context.Context, tx pgx.Tx, universityID uint64, inns []string) (map[string]uint64, error) {
	if len(inns) == 0 {
		return map[string]uint64{}, nil
	}

	query, args, err := psql.Select("inn", "id").
		From("equipments").
		Where(sq.Eq{"university_id": universityID}).
		Where(sq.Eq{"inn": inns}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки занятых инвентарных номеров: %w", err)
	}
	defer rows.Close()

	taken := make(map[string]uint64)
	for rows.Next() {
		var inn string
		var id uint64
		if err := rows.Scan(&inn, &id); err != nil {
			return nil, err
		}
		taken[inn] = id
	}
	return taken, rows.Err()
}

func (r *EquipmentRepository) UpdateInn(ctx context.Context, tx pgx.Tx, scope types.TenantScope, id uint64, inn string) error {
	query := `UPDATE equipments SET inn = $1 WHERE id = $2`
	args := []interface{}{inn, id}
	if !scope.Global {
		query += ` AND university_id = $3`
		args = append(args, scope.UniversityID)
	}

	tag, err := r.q(tx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
