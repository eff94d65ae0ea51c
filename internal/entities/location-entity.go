package entities

// Здание -> этаж -> помещение: физическая иерархия размещения техники.

type Building struct {
	ID           uint64 `json:"id"`
	UniversityID uint64 `json:"university_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
}

type Floor struct {
	ID         uint64 `json:"id"`
	BuildingID uint64 `json:"building_id"`
	Number     int    `json:"number"`
}

type Room struct {
	ID         uint64 `json:"id"`
	BuildingID uint64 `json:"building_id"`
	FloorID    uint64 `json:"floor_id"`
	Number     string `json:"number"`
	Name       string `json:"name"`

	// Связанные данные (не колонки в таблице)
	Building *Building `db:"-" json:"building,omitempty"`
	Floor    *Floor    `db:"-" json:"floor,omitempty"`
}

// Warehouse — склад тенанта. Ровно один склад помечается is_main:
// на него попадает вся новая техника и техника, возвращаемая с ремонта.
type Warehouse struct {
	ID           uint64 `json:"id"`
	UniversityID uint64 `json:"university_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	IsMain       bool   `json:"is_main"`
}
