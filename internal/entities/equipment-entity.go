package entities

import (
	"time"
)

// Статусы жизненного цикла техники.
const (
	StatusInStock  = "in_stock"
	StatusInUse    = "in_use"
	StatusInRepair = "in_repair"
	StatusDisposed = "disposed"
)

// Действия жизненного цикла. AssignToRoom не меняет статус (in_stock ->
// in_stock), но всё равно фиксируется записью в истории перемещений.
const (
	ActionAssignToRoom      = "assign_to_room"
	ActionStartUse          = "start_use"
	ActionSendToRepair      = "send_to_repair"
	ActionCompleteRepair    = "complete_repair"
	ActionReturnToWarehouse = "return_to_warehouse"
	ActionDispose           = "dispose"
)

// transitions — таблица допустимых переходов: действие -> из каких
// статусов -> в какой статус. Disposed терминален и отсутствует среди
// исходных статусов.
var transitions = map[string]struct {
	From []string
	To   string
}{
	ActionAssignToRoom:      {From: []string{StatusInStock}, To: StatusInStock},
	ActionStartUse:          {From: []string{StatusInStock}, To: StatusInUse},
	ActionSendToRepair:      {From: []string{StatusInUse}, To: StatusInRepair},
	ActionCompleteRepair:    {From: []string{StatusInRepair}, To: StatusInUse},
	ActionReturnToWarehouse: {From: []string{StatusInUse, StatusInRepair}, To: StatusInStock},
	ActionDispose:           {From: []string{StatusInStock, StatusInUse, StatusInRepair}, To: StatusDisposed},
}

// NextStatus возвращает целевой статус для действия из текущего статуса.
// Второе значение — false, если переход недопустим.
func NextStatus(action, current string) (string, bool) {
	t, ok := transitions[action]
	if !ok {
		return "", false
	}
	for _, from := range t.From {
		if from == current {
			return t.To, true
		}
	}
	return "", false
}

// KnownAction сообщает, определено ли действие в таблице переходов.
func KnownAction(action string) bool {
	_, ok := transitions[action]
	return ok
}

// Equipment — единица техники. UniqueTag — глобально уникальная UUID-метка
// (печатается в QR), Inn — инвентарный номер, уникальный в пределах тенанта.
type Equipment struct {
	ID              uint64          `json:"id"`
	UniversityID    uint64          `json:"university_id"`
	TypeID          uint64          `json:"type_id"`
	SpecificationID *uint64         `json:"specification_id"`
	RoomID          *uint64         `json:"room_id"`
	WarehouseID     *uint64         `json:"warehouse_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
	IsActive        bool            `json:"is_active"`
	Inn             *string         `json:"inn"`
	UniqueTag       string          `json:"unique_tag"`
	Specs           Characteristics `json:"specs"`
	AuthorID        *uint64         `json:"author_id"`
	CreatedAt       *time.Time      `json:"created_at"`

	// Связанные данные (не колонки в таблице)
	EquipmentType *EquipmentType `db:"-" json:"equipment_type,omitempty"`
	Room          *Room          `db:"-" json:"room,omitempty"`
	Warehouse     *Warehouse     `db:"-" json:"warehouse,omitempty"`
}
