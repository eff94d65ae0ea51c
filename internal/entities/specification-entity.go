package entities

import "inventory-system/pkg/types"

// Characteristic — одна характеристика в шаблоне или в экземпляре техники.
// Display хранит оригинальную человекочитаемую подпись, Value — значение
// произвольного JSON-типа.
type Characteristic struct {
	Display string      `json:"display"`
	Value   interface{} `json:"value"`
}

// Characteristics — набор характеристик, ключи нормализованы
// (транслитерация + snake_case). Хранится в JSONB.
type Characteristics map[string]Characteristic

// DeepCopy возвращает независимую копию набора: правки экземпляра техники
// не должны затрагивать шаблон, из которого он создан.
func (c Characteristics) DeepCopy() Characteristics {
	if c == nil {
		return nil
	}
	out := make(Characteristics, len(c))
	for k, v := range c {
		out[k] = Characteristic{
			Display: v.Display,
			Value:   copyValue(v.Value),
		}
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	default:
		// Скалярные JSON-типы иммутабельны, копировать нечего.
		return val
	}
}

// Specification — шаблон характеристик для типа техники. При создании
// техники набор Specs глубоко копируется в экземпляр.
type Specification struct {
	ID           uint64          `json:"id"`
	UniversityID uint64          `json:"university_id"`
	TypeID       uint64          `json:"type_id"`
	Name         string          `json:"name"`
	Specs        Characteristics `json:"specs"`
	AuthorID     *uint64         `json:"author_id"`

	types.BaseEntity

	// Связанные данные (не колонки в таблице)
	EquipmentType *EquipmentType `db:"-" json:"equipment_type,omitempty"`
}
