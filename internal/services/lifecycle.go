package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

// LifecycleService проводит технику по жизненному циклу. Каждый переход
// выполняется в одной транзакции: строка техники читается под FOR UPDATE,
// валидируется по таблице переходов, затем новый статус и запись истории
// коммитятся вместе. Конкурирующие переходы по одной единице сериализуются
// блокировкой строки: второй увидит уже изменённый статус и получит
// ConflictError.
type LifecycleService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	historyRepo   repositories.HistoryRepositoryInterface
	locationRepo  repositories.LocationRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewLifecycleService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.HistoryRepositoryInterface,
	locationRepo repositories.LocationRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		equipmentRepo: equipmentRepo,
		historyRepo:   historyRepo,
		locationRepo:  locationRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func (s *LifecycleService) Transition(ctx context.Context, equipmentID uint64, payload dto.TransitionDTO) (*dto.TransitionResultDTO, error) {
	scope, err := utils.GetTenantScopeFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if !entities.KnownAction(payload.Action) {
		return nil, apperrors.NewValidationError("Неизвестное действие %q", payload.Action)
	}
	if err := validateTransitionInput(payload); err != nil {
		return nil, err
	}

	var actorID *uint64
	if userID, uerr := utils.GetUserIDFromCtx(ctx); uerr == nil {
		actorID = &userID
	}

	var result *dto.TransitionResultDTO
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		e, err := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, scope, equipmentID)
		if err != nil {
			return err
		}

		// Disposed терминален: любой переход отклоняется.
		if e.Status == entities.StatusDisposed {
			return apperrors.NewConflictError("Техника списана, переходы невозможны")
		}

		newStatus, ok := entities.NextStatus(payload.Action, e.Status)
		if !ok {
			return apperrors.NewConflictError(
				"Недопустимый переход %q из статуса %q", payload.Action, e.Status)
		}

		result, err = s.applyTransition(ctx, tx, scope, e, payload, newStatus, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Переход жизненного цикла выполнен",
		zap.Uint64("equipmentID", equipmentID),
		zap.String("action", payload.Action),
		zap.String("newStatus", result.NewStatus))
	return result, nil
}

// validateTransitionInput проверяет обязательные поля конкретного действия.
func validateTransitionInput(payload dto.TransitionDTO) error {
	switch payload.Action {
	case entities.ActionAssignToRoom:
		if payload.RoomID == nil {
			return apperrors.NewValidationErrorWithFields("Не хватает данных для перехода",
				map[string]string{"room_id": "обязателен для assign_to_room"})
		}
	case entities.ActionReturnToWarehouse:
		if payload.WarehouseID == nil {
			return apperrors.NewValidationErrorWithFields("Не хватает данных для перехода",
				map[string]string{"warehouse_id": "обязателен для return_to_warehouse"})
		}
	case entities.ActionDispose:
		if !payload.Reason.Valid || payload.Reason.String == "" {
			return apperrors.NewValidationErrorWithFields("Не хватает данных для перехода",
				map[string]string{"reason": "обязательна для dispose"})
		}
	}
	return nil
}

// applyTransition пишет новый статус, размещение и запись истории.
// Вызывается только под блокировкой строки техники.
func (s *LifecycleService) applyTransition(
	ctx context.Context,
	tx pgx.Tx,
	scope types.TenantScope,
	e *entities.Equipment,
	payload dto.TransitionDTO,
	newStatus string,
	actorID *uint64,
) (*dto.TransitionResultDTO, error) {
	var note *string
	if payload.Note.Valid {
		n := payload.Note.String
		note = &n
	}

	movement := entities.MovementHistory{
		UniversityID: e.UniversityID,
		EquipmentID:  e.ID,
		FromStatus:   e.Status,
		ToStatus:     newStatus,
		FromRoomID:   e.RoomID,
		ActorID:      actorID,
		Note:         note,
	}

	newRoomID := e.RoomID
	newWarehouseID := e.WarehouseID
	var historyID uint64

	switch payload.Action {
	case entities.ActionAssignToRoom:
		room, err := s.locationRepo.FindRoom(ctx, scope, *payload.RoomID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("Помещение не найдено в области тенанта")
			}
			return nil, err
		}
		newRoomID = &room.ID
		newWarehouseID = nil

		movement.ToRoomID = &room.ID
		historyID, err = s.historyRepo.InsertMovement(ctx, tx, movement)
		if err != nil {
			return nil, err
		}

	case entities.ActionStartUse:
		// В использовании техника числится за помещением, склад очищается.
		newWarehouseID = nil
		movement.ToRoomID = e.RoomID
		var err error
		historyID, err = s.historyRepo.InsertMovement(ctx, tx, movement)
		if err != nil {
			return nil, err
		}

	case entities.ActionSendToRepair:
		repair := entities.Repair{
			UniversityID:   e.UniversityID,
			EquipmentID:    e.ID,
			Status:         entities.RepairInProgress,
			OriginalRoomID: e.RoomID,
			ActorID:        actorID,
		}
		if note != nil {
			repair.Notes = *note
		}
		// На время ремонта техника снимается с помещения; исходное
		// помещение хранится в записи ремонта для возврата.
		newRoomID = nil
		var err error
		historyID, err = s.historyRepo.InsertRepair(ctx, tx, repair)
		if err != nil {
			return nil, err
		}

	case entities.ActionCompleteRepair:
		noteText := ""
		if note != nil {
			noteText = *note
		}
		open, err := s.historyRepo.FindOpenRepair(ctx, tx, e.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewConflictError("У техники нет открытого ремонта")
			}
			return nil, err
		}
		// Техника возвращается в помещение, из которого уходила в ремонт.
		newRoomID = open.OriginalRoomID
		historyID, err = s.historyRepo.CloseOpenRepair(ctx, tx, e.ID, entities.RepairCompleted, noteText)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewConflictError("У техники нет открытого ремонта")
			}
			return nil, err
		}

	case entities.ActionReturnToWarehouse:
		wh, err := s.locationRepo.FindWarehouse(ctx, scope, *payload.WarehouseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("Склад не найден в области тенанта")
			}
			return nil, err
		}
		newRoomID = nil
		newWarehouseID = &wh.ID

		// Возврат из ремонта закрывает открытую запись, если она есть.
		if e.Status == entities.StatusInRepair {
			if _, err := s.historyRepo.CloseOpenRepair(ctx, tx, e.ID, entities.RepairCompleted, ""); err != nil &&
				!errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
		}

		movement.WarehouseID = &wh.ID
		historyID, err = s.historyRepo.InsertMovement(ctx, tx, movement)
		if err != nil {
			return nil, err
		}

	case entities.ActionDispose:
		disposal := entities.Disposal{
			UniversityID:   e.UniversityID,
			EquipmentID:    e.ID,
			Reason:         payload.Reason.String,
			OriginalRoomID: e.RoomID,
			ActorID:        actorID,
		}
		if note != nil {
			disposal.Notes = *note
		}

		// Списание из ремонта помечает открытый ремонт неуспешным.
		if e.Status == entities.StatusInRepair {
			if _, err := s.historyRepo.CloseOpenRepair(ctx, tx, e.ID, entities.RepairFailed, ""); err != nil &&
				!errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
		}

		newRoomID = nil
		newWarehouseID = nil
		var err error
		historyID, err = s.historyRepo.InsertDisposal(ctx, tx, disposal)
		if err != nil {
			return nil, err
		}
	}

	if err := s.equipmentRepo.ApplyTransition(ctx, tx, e.ID, newStatus, newRoomID, newWarehouseID); err != nil {
		return nil, err
	}

	return &dto.TransitionResultDTO{
		EquipmentID:     e.ID,
		NewStatus:       newStatus,
		HistoryRecordID: historyID,
	}, nil
}
