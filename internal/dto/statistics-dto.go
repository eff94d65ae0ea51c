package dto

// StatisticsDTO — полная статистика по области тенанта.
// Поля _cached и _generated_at аннотируют происхождение данных:
// взяты ли они из кеша и когда были вычислены.
type StatisticsDTO struct {
	Overall     OverallCountsDTO  `json:"overall"`
	ByStatus    map[string]uint64 `json:"byStatus"`
	ByType      map[string]uint64 `json:"byType"`
	ByLocation  map[string]uint64 `json:"byLocation"`
	Cached      bool              `json:"_cached"`
	GeneratedAt string            `json:"_generated_at"`
}

type OverallCountsDTO struct {
	Total    uint64 `json:"total"`
	Active   uint64 `json:"active"`
	Disposed uint64 `json:"disposed"`
}

// DashboardDTO — сокращённая сводка для главного экрана, отдельный
// кеш-слот с более коротким TTL.
type DashboardDTO struct {
	Total       uint64            `json:"total"`
	InStock     uint64            `json:"in_stock"`
	InUse       uint64            `json:"in_use"`
	InRepair    uint64            `json:"in_repair"`
	Disposed    uint64            `json:"disposed"`
	TopTypes    map[string]uint64 `json:"topTypes"`
	Cached      bool              `json:"_cached"`
	GeneratedAt string            `json:"_generated_at"`
}
