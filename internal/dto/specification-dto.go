package dto

import "inventory-system/internal/entities"

// CreateSpecificationDTO принимает характеристики в "сыром" виде:
// человекочитаемая подпись -> значение. Нормализация ключей происходит
// в сервисе.
type CreateSpecificationDTO struct {
	TypeID             uint64                 `json:"type_id" validate:"required,gt=0"`
	Name               string                 `json:"name" validate:"required,min=2,max=255"`
	RawCharacteristics map[string]interface{} `json:"characteristics" validate:"required,min=1"`
}

type UpdateSpecificationDTO struct {
	Name               *string                `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	RawCharacteristics map[string]interface{} `json:"characteristics,omitempty" validate:"omitempty,min=1"`
}

type SpecificationDTO struct {
	ID        uint64                   `json:"id"`
	TypeID    uint64                   `json:"type_id"`
	Name      string                   `json:"name"`
	Specs     entities.Characteristics `json:"specs"`
	CreatedAt string                   `json:"created_at"`
	UpdatedAt string                   `json:"updated_at"`

	EquipmentType *ShortEquipmentTypeDTO `json:"equipment_type,omitempty"`
}

// SpecificationKeyDTO — пара ключ/подпись для подсказок в UI.
// Дедупликация по ключу, выигрывает первая встреченная подпись.
type SpecificationKeyDTO struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}
