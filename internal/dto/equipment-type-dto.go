package dto

type CreateEquipmentTypeDTO struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type UpdateEquipmentTypeDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
}

type EquipmentTypeDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ShortEquipmentTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
