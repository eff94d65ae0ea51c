package dto

import "github.com/aarondl/null/v8"

// TransitionDTO — входной контракт перехода жизненного цикла.
// Обязательность полей зависит от действия и проверяется в сервисе:
// assign_to_room требует room_id, return_to_warehouse — warehouse_id,
// dispose — reason.
type TransitionDTO struct {
	Action      string      `json:"action" validate:"required"`
	RoomID      *uint64     `json:"room_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID *uint64     `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	Note        null.String `json:"note,omitempty"`
	Reason      null.String `json:"reason,omitempty"`
}

type TransitionResultDTO struct {
	EquipmentID     uint64 `json:"equipment_id"`
	NewStatus       string `json:"new_status"`
	HistoryRecordID uint64 `json:"history_record_id"`
}
