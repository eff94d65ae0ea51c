package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	typeRepo      repositories.EquipmentTypeRepositoryInterface
	specRepo      repositories.SpecificationRepositoryInterface
	locationRepo  repositories.LocationRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	typeRepo repositories.EquipmentTypeRepositoryInterface,
	specRepo repositories.SpecificationRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		typeRepo:      typeRepo,
		specRepo:      specRepo,
		locationRepo:  locationRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	list, total, err := s.equipmentRepo.GetEquipments(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.EquipmentDTO, 0, len(list))
	for _, e := range list {
		out = append(out, toEquipmentDTO(e))
	}
	return out, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.equipmentRepo.FindEquipment(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	d := toEquipmentDTO(*e)
	return &d, nil
}

// CreateEquipment создаёт единицу техники. Если указан шаблон,
// его характеристики глубоко копируются в новую строку: последующие
// правки шаблона не затрагивают уже созданную технику. Новая техника
// всегда попадает на главный склад тенанта со статусом in_stock.
func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Global {
		return nil, apperrors.NewValidationError("Создание техники требует конкретного тенанта")
	}

	e, err := s.buildEquipment(ctx, scope, payload.TypeID, payload.SpecificationID, payload.Name, payload.Description)
	if err != nil {
		return nil, err
	}
	if payload.Inn.Valid && payload.Inn.String != "" {
		inn := payload.Inn.String
		e.Inn = &inn
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, nil, *e)
	if err != nil {
		s.logger.Error("Ошибка при создании техники", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Техника создана",
		zap.Uint64("id", id),
		zap.Uint64("universityID", scope.UniversityID))
	return s.FindEquipment(ctx, id)
}

// buildEquipment валидирует тип/шаблон и собирает сущность без вставки.
// Используется и одиночным созданием, и пакетным провижинингом.
func (s *EquipmentService) buildEquipment(ctx context.Context, scope types.TenantScope, typeID uint64, specificationID *uint64, name string, description string) (*entities.Equipment, error) {
	et, err := s.typeRepo.FindEquipmentType(ctx, scope, typeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("Тип техники не найден в области тенанта")
		}
		return nil, err
	}

	var specs entities.Characteristics
	if specificationID != nil {
		spec, err := s.specRepo.FindSpecification(ctx, scope, *specificationID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("Шаблон характеристик не найден в области тенанта")
			}
			return nil, err
		}
		if spec.TypeID != et.ID {
			return nil, apperrors.NewValidationError("Шаблон характеристик относится к другому типу техники")
		}
		specs = spec.Specs.DeepCopy()
	}
	if specs == nil {
		specs = entities.Characteristics{}
	}

	mainWh, err := s.locationRepo.GetMainWarehouse(ctx, scope.UniversityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("У тенанта не настроен главный склад")
		}
		return nil, err
	}

	var authorID *uint64
	if userID, uerr := utils.GetUserIDFromCtx(ctx); uerr == nil {
		authorID = &userID
	}

	whID := mainWh.ID
	return &entities.Equipment{
		UniversityID:    scope.UniversityID,
		TypeID:          et.ID,
		SpecificationID: specificationID,
		WarehouseID:     &whID,
		Name:            name,
		Description:     description,
		Status:          entities.StatusInStock,
		IsActive:        true,
		UniqueTag:       uuid.NewString(),
		Specs:           specs,
		AuthorID:        authorID,
	}, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var inn *string
	if payload.Inn.Valid {
		v := payload.Inn.String
		inn = &v
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, scope, id, payload.Name, payload.Description, inn, payload.IsActive); err != nil {
		return nil, err
	}
	return s.FindEquipment(ctx, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.equipmentRepo.DeleteEquipment(ctx, scope, id)
}

// Scan ищет технику по отсканированному идентификатору: сначала точное
// совпадение инвентарного номера, затем unique_tag.
func (s *EquipmentService) Scan(ctx context.Context, identifier string) (*dto.EquipmentDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if identifier == "" {
		return nil, apperrors.NewValidationError("Пустой идентификатор")
	}

	e, err := s.equipmentRepo.Scan(ctx, scope, identifier)
	if err != nil {
		return nil, err
	}
	d := toEquipmentDTO(*e)
	return &d, nil
}

// BulkUpdateInns обновляет инвентарные номера пакетно, всё-или-ничего.
// При любом конфликте уникальности не применяется ни одно обновление,
// а ошибка перечисляет все конфликтующие позиции.
func (s *EquipmentService) BulkUpdateInns(ctx context.Context, payload dto.BulkUpdateInnsDTO) error {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return err
	}
	if scope.Global {
		return apperrors.NewValidationError("Пакетное обновление номеров требует конкретного тенанта")
	}

	// Дубликаты внутри самого пакета.
	conflicts := make(map[string]string)
	seen := make(map[string]int)
	for i, item := range payload.Items {
		if prev, dup := seen[item.Inn]; dup {
			conflicts[fmt.Sprintf("items[%d].inn", i)] =
				fmt.Sprintf("номер %q дублирует items[%d]", item.Inn, prev)
			continue
		}
		seen[item.Inn] = i
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		inns := make([]string, 0, len(payload.Items))
		ids := make(map[uint64]bool, len(payload.Items))
		for _, item := range payload.Items {
			inns = append(inns, item.Inn)
			ids[item.ID] = true
		}

		taken, err := s.equipmentRepo.FindExistingInns(ctx, tx, scope.UniversityID, inns)
		if err != nil {
			return err
		}
		for i, item := range payload.Items {
			// Номер, занятый строкой вне пакета, — конфликт; занятый
			// строкой из пакета — легитимная перестановка.
			if ownerID, busy := taken[item.Inn]; busy && !ids[ownerID] {
				conflicts[fmt.Sprintf("items[%d].inn", i)] =
					fmt.Sprintf("номер %q уже занят техникой %d", item.Inn, ownerID)
			}
		}
		if len(conflicts) > 0 {
			return apperrors.NewValidationErrorWithFields(
				"Конфликты инвентарных номеров, пакет не применён", conflicts)
		}

		// Два прохода против ложных конфликтов при перестановке номеров
		// внутри пакета.
		for _, item := range payload.Items {
			if err := s.equipmentRepo.UpdateInn(ctx, tx, scope, item.ID, "bulk-tmp-"+uuid.NewString()); err != nil {
				return err
			}
		}
		for _, item := range payload.Items {
			if err := s.equipmentRepo.UpdateInn(ctx, tx, scope, item.ID, item.Inn); err != nil {
				return err
			}
		}
		return nil
	})
}

func toEquipmentDTO(e entities.Equipment) dto.EquipmentDTO {
	d := dto.EquipmentDTO{
		ID:              e.ID,
		TypeID:          e.TypeID,
		SpecificationID: e.SpecificationID,
		RoomID:          e.RoomID,
		WarehouseID:     e.WarehouseID,
		Name:            e.Name,
		Description:     e.Description,
		Status:          e.Status,
		IsActive:        e.IsActive,
		Inn:             e.Inn,
		UniqueTag:       e.UniqueTag,
		Specs:           e.Specs,
	}
	if e.CreatedAt != nil {
		d.CreatedAt = e.CreatedAt.Format(types.TimeLayout)
	}
	if e.EquipmentType != nil {
		d.EquipmentType = &dto.ShortEquipmentTypeDTO{
			ID:   e.EquipmentType.ID,
			Name: e.EquipmentType.Name,
			Slug: e.EquipmentType.Slug,
		}
	}
	if e.Room != nil {
		d.Room = &dto.ShortRoomDTO{ID: e.Room.ID, Number: e.Room.Number, Name: e.Room.Name}
	}
	if e.Warehouse != nil {
		d.Warehouse = &dto.ShortWarehouseDTO{ID: e.Warehouse.ID, Name: e.Warehouse.Name, IsMain: e.Warehouse.IsMain}
	}
	return d
}
