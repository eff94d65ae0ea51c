package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type EquipmentTypeService struct {
	typeRepo repositories.EquipmentTypeRepositoryInterface
	logger   *zap.Logger
}

func NewEquipmentTypeService(typeRepo repositories.EquipmentTypeRepositoryInterface, logger *zap.Logger) *EquipmentTypeService {
	return &EquipmentTypeService{typeRepo: typeRepo, logger: logger}
}

func (s *EquipmentTypeService) GetEquipmentTypes(ctx context.Context, limit uint64, offset uint64) ([]dto.EquipmentTypeDTO, uint64, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	list, total, err := s.typeRepo.GetEquipmentTypes(ctx, scope, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.EquipmentTypeDTO, 0, len(list))
	for _, et := range list {
		out = append(out, toEquipmentTypeDTO(et))
	}
	return out, total, nil
}

func (s *EquipmentTypeService) FindEquipmentType(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	et, err := s.typeRepo.FindEquipmentType(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	d := toEquipmentTypeDTO(*et)
	return &d, nil
}

func (s *EquipmentTypeService) CreateEquipmentType(ctx context.Context, payload dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Global {
		return nil, apperrors.NewValidationError("Создание типа техники требует конкретного тенанта")
	}

	id, err := s.typeRepo.CreateEquipmentType(ctx, entities.EquipmentType{
		UniversityID: scope.UniversityID,
		Name:         payload.Name,
		Slug:         utils.Slugify(payload.Name),
	})
	if err != nil {
		s.logger.Error("Ошибка при создании типа техники", zap.Error(err))
		return nil, err
	}

	return s.FindEquipmentType(ctx, id)
}

func (s *EquipmentTypeService) UpdateEquipmentType(ctx context.Context, id uint64, payload dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	et, err := s.typeRepo.FindEquipmentType(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	name := et.Name
	if payload.Name != nil {
		name = *payload.Name
	}

	// Slug фиксируется, как только на тип ссылается хотя бы один шаблон:
	// ключи характеристик в уже созданной технике не должны «переезжать».
	slug := et.Slug
	referenced, err := s.typeRepo.HasSpecifications(ctx, id)
	if err != nil {
		return nil, err
	}
	if !referenced {
		slug = utils.Slugify(name)
	}

	if err := s.typeRepo.UpdateEquipmentType(ctx, scope, id, name, slug); err != nil {
		return nil, err
	}
	return s.FindEquipmentType(ctx, id)
}

func (s *EquipmentTypeService) DeleteEquipmentType(ctx context.Context, id uint64) error {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return err
	}

	referenced, err := s.typeRepo.HasSpecifications(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return apperrors.NewConflictError("Нельзя удалить тип: на него ссылаются шаблоны характеристик")
	}
	return s.typeRepo.DeleteEquipmentType(ctx, scope, id)
}

func toEquipmentTypeDTO(et entities.EquipmentType) dto.EquipmentTypeDTO {
	d := dto.EquipmentTypeDTO{
		ID:   et.ID,
		Name: et.Name,
		Slug: et.Slug,
	}
	if et.CreatedAt != nil {
		d.CreatedAt = et.CreatedAt.Format(types.TimeLayout)
	}
	if et.UpdatedAt != nil {
		d.UpdatedAt = et.UpdatedAt.Format(types.TimeLayout)
	}
	return d
}
