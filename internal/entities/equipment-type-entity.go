package entities

import "inventory-system/pkg/types"

// EquipmentType — категория техники. Slug генерируется из названия
// (транслитерация кириллицы) и уникален в пределах тенанта.
type EquipmentType struct {
	ID           uint64 `json:"id"`
	UniversityID uint64 `json:"university_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`

	types.BaseEntity
}
