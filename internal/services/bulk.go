package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// BulkService создаёт партию техники из одного шаблона. Партия атомарна:
// единственный конфликт инвентарного номера отменяет все строки, а ошибка
// перечисляет каждую конфликтующую позицию.
type BulkService struct {
	equipmentSvc  *EquipmentService
	equipmentRepo repositories.EquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewBulkService(
	equipmentSvc *EquipmentService,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *BulkService {
	return &BulkService{
		equipmentSvc:  equipmentSvc,
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func (s *BulkService) BulkCreate(ctx context.Context, payload dto.BulkCreateEquipmentDTO) (*dto.BulkCreateResultDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Global {
		return nil, apperrors.NewValidationError("Пакетное создание требует конкретного тенанта")
	}

	if len(payload.Inns) > 0 && len(payload.Inns) != payload.Count {
		return nil, apperrors.NewValidationErrorWithFields(
			"Несовпадение count и длины inns",
			map[string]string{"inns": fmt.Sprintf("передано %d номеров при count=%d", len(payload.Inns), payload.Count)})
	}

	// Дубликаты внутри самой партии.
	conflicts := make(map[string]string)
	seen := make(map[string]int)
	for i, inn := range payload.Inns {
		if prev, dup := seen[inn]; dup {
			conflicts[fmt.Sprintf("inns[%d]", i)] =
				fmt.Sprintf("номер %q дублирует inns[%d]", inn, prev)
			continue
		}
		seen[inn] = i
	}
	if len(conflicts) > 0 {
		return nil, apperrors.NewValidationErrorWithFields(
			"Конфликты инвентарных номеров, партия не создана", conflicts)
	}

	// Шаблон/тип валидируются один раз, заготовка тиражируется.
	prototype, err := s.equipmentSvc.buildEquipment(ctx, scope, payload.TypeID, payload.SpecificationID, payload.Name, "")
	if err != nil {
		return nil, err
	}

	var createdIDs []uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		taken, err := s.equipmentRepo.FindExistingInns(ctx, tx, scope.UniversityID, payload.Inns)
		if err != nil {
			return err
		}
		for i, inn := range payload.Inns {
			if ownerID, busy := taken[inn]; busy {
				conflicts[fmt.Sprintf("inns[%d]", i)] =
					fmt.Sprintf("номер %q уже занят техникой %d", inn, ownerID)
			}
		}
		if len(conflicts) > 0 {
			return apperrors.NewValidationErrorWithFields(
				"Конфликты инвентарных номеров, партия не создана", conflicts)
		}

		createdIDs = make([]uint64, 0, payload.Count)
		for i := 0; i < payload.Count; i++ {
			e := *prototype
			e.Specs = prototype.Specs.DeepCopy()
			e.UniqueTag = uuid.NewString()
			if payload.Count > 1 {
				e.Name = fmt.Sprintf("%s #%d", payload.Name, i+1)
			}
			if len(payload.Inns) > 0 {
				inn := payload.Inns[i]
				e.Inn = &inn
			}

			id, err := s.equipmentRepo.CreateEquipment(ctx, tx, e)
			if err != nil {
				return err
			}
			createdIDs = append(createdIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Партия техники создана",
		zap.Int("count", len(createdIDs)),
		zap.Uint64("universityID", scope.UniversityID))
	return &dto.BulkCreateResultDTO{
		CreatedCount: len(createdIDs),
		EquipmentIDs: createdIDs,
	}, nil
}
