package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type SpecificationService struct {
	specRepo repositories.SpecificationRepositoryInterface
	typeRepo repositories.EquipmentTypeRepositoryInterface
	logger   *zap.Logger
}

func NewSpecificationService(
	specRepo repositories.SpecificationRepositoryInterface,
	typeRepo repositories.EquipmentTypeRepositoryInterface,
	logger *zap.Logger,
) *SpecificationService {
	return &SpecificationService{specRepo: specRepo, typeRepo: typeRepo, logger: logger}
}

// normalizeCharacteristics превращает "сырые" характеристики
// (подпись -> значение) в нормализованную форму key -> {display, value}.
// Коллизия ключей внутри одного вызова — ошибка, а не тихая перезапись.
func normalizeCharacteristics(raw map[string]interface{}) (entities.Characteristics, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("Набор характеристик не может быть пустым")
	}

	out := make(entities.Characteristics, len(raw))
	seen := make(map[string]string, len(raw))
	for display, value := range raw {
		key := utils.NormalizeKey(display)
		if firstDisplay, dup := seen[key]; dup {
			return nil, apperrors.NewValidationErrorWithFields(
				"Коллизия ключей характеристик",
				map[string]string{
					key: fmt.Sprintf("подписи %q и %q дают один ключ %q", firstDisplay, display, key),
				})
		}
		seen[key] = display
		out[key] = entities.Characteristic{Display: display, Value: value}
	}
	return out, nil
}

func (s *SpecificationService) CreateSpecification(ctx context.Context, payload dto.CreateSpecificationDTO) (*dto.SpecificationDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Global {
		return nil, apperrors.NewValidationError("Создание шаблона требует конкретного тенанта")
	}

	// Тип должен существовать и принадлежать тенанту вызывающего.
	et, err := s.typeRepo.FindEquipmentType(ctx, scope, payload.TypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("Тип техники не найден в области тенанта")
		}
		return nil, err
	}

	specs, err := normalizeCharacteristics(payload.RawCharacteristics)
	if err != nil {
		return nil, err
	}

	var authorID *uint64
	if userID, uerr := utils.GetUserIDFromCtx(ctx); uerr == nil {
		authorID = &userID
	}

	id, err := s.specRepo.CreateSpecification(ctx, entities.Specification{
		UniversityID: scope.UniversityID,
		TypeID:       et.ID,
		Name:         payload.Name,
		Specs:        specs,
		AuthorID:     authorID,
	})
	if err != nil {
		s.logger.Error("Ошибка при создании шаблона характеристик", zap.Error(err))
		return nil, err
	}

	return s.FindSpecification(ctx, id)
}

func (s *SpecificationService) UpdateSpecification(ctx context.Context, id uint64, payload dto.UpdateSpecificationDTO) (*dto.SpecificationDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	spec, err := s.specRepo.FindSpecification(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	name := spec.Name
	if payload.Name != nil {
		name = *payload.Name
	}

	specs := spec.Specs
	if payload.RawCharacteristics != nil {
		specs, err = normalizeCharacteristics(payload.RawCharacteristics)
		if err != nil {
			return nil, err
		}
	}

	if err := s.specRepo.UpdateSpecification(ctx, scope, id, name, specs); err != nil {
		return nil, err
	}
	return s.FindSpecification(ctx, id)
}

func (s *SpecificationService) FindSpecification(ctx context.Context, id uint64) (*dto.SpecificationDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	spec, err := s.specRepo.FindSpecification(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	d := toSpecificationDTO(*spec)
	return &d, nil
}

// ListByType возвращает шаблоны типа в порядке создания.
func (s *SpecificationService) ListByType(ctx context.Context, typeID uint64) ([]dto.SpecificationDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.specRepo.ListByType(ctx, scope, typeID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SpecificationDTO, 0, len(list))
	for _, spec := range list {
		out = append(out, toSpecificationDTO(spec))
	}
	return out, nil
}

// ListKeysForType собирает различные пары {key, display} по всем шаблонам
// типа. Дедупликация по ключу, первая встреченная подпись выигрывает
// (шаблоны обходятся в порядке создания).
func (s *SpecificationService) ListKeysForType(ctx context.Context, typeID uint64) ([]dto.SpecificationKeyDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.specRepo.ListByType(ctx, scope, typeID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]dto.SpecificationKeyDTO, 0)
	for _, spec := range list {
		// Ключи внутри одного шаблона обходим детерминированно.
		for _, key := range sortedKeys(spec.Specs) {
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, dto.SpecificationKeyDTO{Key: key, Display: spec.Specs[key].Display})
		}
	}
	return out, nil
}

func (s *SpecificationService) DeleteSpecification(ctx context.Context, id uint64) error {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.specRepo.DeleteSpecification(ctx, scope, id)
}

func toSpecificationDTO(spec entities.Specification) dto.SpecificationDTO {
	d := dto.SpecificationDTO{
		ID:     spec.ID,
		TypeID: spec.TypeID,
		Name:   spec.Name,
		Specs:  spec.Specs,
	}
	if spec.CreatedAt != nil {
		d.CreatedAt = spec.CreatedAt.Format(types.TimeLayout)
	}
	if spec.UpdatedAt != nil {
		d.UpdatedAt = spec.UpdatedAt.Format(types.TimeLayout)
	}
	if spec.EquipmentType != nil {
		d.EquipmentType = &dto.ShortEquipmentTypeDTO{
			ID:   spec.EquipmentType.ID,
			Name: spec.EquipmentType.Name,
			Slug: spec.EquipmentType.Slug,
		}
	}
	return d
}
