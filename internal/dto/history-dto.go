package dto

type MovementHistoryDTO struct {
	ID          uint64  `json:"id"`
	EquipmentID uint64  `json:"equipment_id"`
	FromStatus  string  `json:"from_status"`
	ToStatus    string  `json:"to_status"`
	FromRoomID  *uint64 `json:"from_room_id"`
	ToRoomID    *uint64 `json:"to_room_id"`
	WarehouseID *uint64 `json:"warehouse_id"`
	ActorID     *uint64 `json:"actor_id"`
	Note        *string `json:"note"`
	MovedAt     string  `json:"moved_at"`
}

type RepairDTO struct {
	ID          uint64  `json:"id"`
	EquipmentID uint64  `json:"equipment_id"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
	ActorID     *uint64 `json:"actor_id"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

type DisposalDTO struct {
	ID           uint64  `json:"id"`
	EquipmentID  uint64  `json:"equipment_id"`
	Reason       string  `json:"reason"`
	Notes        string  `json:"notes"`
	ActorID      *uint64 `json:"actor_id"`
	DisposalDate string  `json:"disposal_date"`
}
