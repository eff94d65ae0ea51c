package dto

// BulkCreateEquipmentDTO создаёт count единиц техники из одного шаблона.
// Если передан inns, его длина обязана совпадать с count.
type BulkCreateEquipmentDTO struct {
	TypeID          uint64   `json:"type_id" validate:"required,gt=0"`
	SpecificationID *uint64  `json:"specification_id,omitempty" validate:"omitempty,gt=0"`
	Name            string   `json:"name" validate:"required,min=2,max=255"`
	Count           int      `json:"count" validate:"required,gt=0,lte=1000"`
	Inns            []string `json:"inns,omitempty" validate:"omitempty,dive,inventory_number"`
}

type BulkCreateResultDTO struct {
	CreatedCount int      `json:"created_count"`
	EquipmentIDs []uint64 `json:"equipment_ids"`
}
