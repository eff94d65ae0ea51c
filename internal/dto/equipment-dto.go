package dto

import (
	"github.com/aarondl/null/v8"

	"inventory-system/internal/entities"
)

type CreateEquipmentDTO struct {
	TypeID          uint64      `json:"type_id" validate:"required,gt=0"`
	SpecificationID *uint64     `json:"specification_id,omitempty" validate:"omitempty,gt=0"`
	Name            string      `json:"name" validate:"required,min=2,max=255"`
	Description     string      `json:"description"`
	Inn             null.String `json:"inn" validate:"omitempty"`
}

type UpdateEquipmentDTO struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string     `json:"description,omitempty" validate:"omitempty"`
	Inn         null.String `json:"inn,omitempty" validate:"omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
}

type EquipmentDTO struct {
	ID              uint64                   `json:"id"`
	TypeID          uint64                   `json:"type_id"`
	SpecificationID *uint64                  `json:"specification_id"`
	RoomID          *uint64                  `json:"room_id"`
	WarehouseID     *uint64                  `json:"warehouse_id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	Status          string                   `json:"status"`
	IsActive        bool                     `json:"is_active"`
	Inn             *string                  `json:"inn"`
	UniqueTag       string                   `json:"unique_tag"`
	Specs           entities.Characteristics `json:"specs"`
	CreatedAt       string                   `json:"created_at"`

	// Заполняются только при expand=equipment_type,room,warehouse
	EquipmentType *ShortEquipmentTypeDTO `json:"equipment_type,omitempty"`
	Room          *ShortRoomDTO          `json:"room,omitempty"`
	Warehouse     *ShortWarehouseDTO     `json:"warehouse,omitempty"`
}

type ShortRoomDTO struct {
	ID     uint64 `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

type ShortWarehouseDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	IsMain bool   `json:"is_main"`
}

// BulkUpdateInnsDTO — пакетное обновление инвентарных номеров,
// применяется всё-или-ничего.
type BulkUpdateInnsDTO struct {
	Items []BulkInnItemDTO `json:"items" validate:"required,min=1,dive"`
}

type BulkInnItemDTO struct {
	ID  uint64 `json:"id" validate:"required,gt=0"`
	Inn string `json:"inn" validate:"required,inventory_number"`
}
