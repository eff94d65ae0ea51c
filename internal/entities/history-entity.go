package entities

import "time"

// Статусы записей о ремонте.
const (
	RepairInProgress = "in_progress"
	RepairCompleted  = "completed"
	RepairFailed     = "failed"
)

// MovementHistory — append-only запись о смене статуса или размещения.
// Создаётся только как побочный эффект перехода, вручную не редактируется.
type MovementHistory struct {
	ID           uint64    `json:"id"`
	UniversityID uint64    `json:"university_id"`
	EquipmentID  uint64    `json:"equipment_id"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	FromRoomID   *uint64   `json:"from_room_id"`
	ToRoomID     *uint64   `json:"to_room_id"`
	WarehouseID  *uint64   `json:"warehouse_id"`
	ActorID      *uint64   `json:"actor_id"`
	Note         *string   `json:"note"`
	MovedAt      time.Time `json:"moved_at"`
}

// Repair открывается при отправке в ремонт и закрывается при завершении
// (completed) либо при списании из ремонта (failed). OriginalRoomID
// запоминает помещение, из которого технику забрали.
type Repair struct {
	ID             uint64     `json:"id"`
	UniversityID   uint64     `json:"university_id"`
	EquipmentID    uint64     `json:"equipment_id"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes"`
	OriginalRoomID *uint64    `json:"original_room_id"`
	ActorID        *uint64    `json:"actor_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
}

// Disposal — акт списания. Для каждой единицы техники не более одного.
type Disposal struct {
	ID             uint64    `json:"id"`
	UniversityID   uint64    `json:"university_id"`
	EquipmentID    uint64    `json:"equipment_id"`
	Reason         string    `json:"reason"`
	Notes          string    `json:"notes"`
	OriginalRoomID *uint64   `json:"original_room_id"`
	ActorID        *uint64   `json:"actor_id"`
	DisposalDate   time.Time `json:"disposal_date"`
}
