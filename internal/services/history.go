package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

// HistoryService отдаёт журналы перемещений, ремонтов и списаний.
// Только чтение: записи создаёт исключительно LifecycleService.
type HistoryService struct {
	historyRepo repositories.HistoryRepositoryInterface
	logger      *zap.Logger
}

func NewHistoryService(historyRepo repositories.HistoryRepositoryInterface, logger *zap.Logger) *HistoryService {
	return &HistoryService{historyRepo: historyRepo, logger: logger}
}

func (s *HistoryService) ListMovements(ctx context.Context, equipmentID uint64, limit uint64, offset uint64) ([]dto.MovementHistoryDTO, uint64, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	list, total, err := s.historyRepo.ListMovements(ctx, scope, equipmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.MovementHistoryDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementHistoryDTO{
			ID:          m.ID,
			EquipmentID: m.EquipmentID,
			FromStatus:  m.FromStatus,
			ToStatus:    m.ToStatus,
			FromRoomID:  m.FromRoomID,
			ToRoomID:    m.ToRoomID,
			WarehouseID: m.WarehouseID,
			ActorID:     m.ActorID,
			Note:        m.Note,
			MovedAt:     m.MovedAt.Format(types.TimeLayout),
		})
	}
	return out, total, nil
}

func (s *HistoryService) ListRepairs(ctx context.Context, equipmentID uint64) ([]dto.RepairDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.historyRepo.ListRepairs(ctx, scope, equipmentID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RepairDTO, 0, len(list))
	for _, rep := range list {
		out = append(out, toRepairDTO(rep))
	}
	return out, nil
}

func (s *HistoryService) FindDisposal(ctx context.Context, equipmentID uint64) (*dto.DisposalDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.historyRepo.FindDisposal(ctx, scope, equipmentID)
	if err != nil {
		return nil, err
	}

	return &dto.DisposalDTO{
		ID:           d.ID,
		EquipmentID:  d.EquipmentID,
		Reason:       d.Reason,
		Notes:        d.Notes,
		ActorID:      d.ActorID,
		DisposalDate: d.DisposalDate.Format(types.TimeLayout),
	}, nil
}

func toRepairDTO(rep entities.Repair) dto.RepairDTO {
	d := dto.RepairDTO{
		ID:          rep.ID,
		EquipmentID: rep.EquipmentID,
		Status:      rep.Status,
		Notes:       rep.Notes,
		ActorID:     rep.ActorID,
		StartDate:   rep.StartDate.Format(types.TimeLayout),
	}
	if rep.EndDate != nil {
		end := rep.EndDate.Format(types.TimeLayout)
		d.EndDate = &end
	}
	return d
}
