package types

// TenantScope — разрешённая область данных запроса.
//
// Global == true означает явный суперпользовательский режим (админ без
// X-Tenant-Key): репозитории не добавляют фильтр по тенанту. Это никогда
// не подразумеваемое поведение по умолчанию — только осознанный выбор
// резолвера.
type TenantScope struct {
	UniversityID uint64 `json:"university_id"`
	Key          string `json:"key"`
	Global       bool   `json:"global"`
}

// GlobalScope возвращает суперпользовательскую область.
func GlobalScope() TenantScope {
	return TenantScope{Global: true}
}

// ScopeFor возвращает область конкретного тенанта.
func ScopeFor(universityID uint64, key string) TenantScope {
	return TenantScope{UniversityID: universityID, Key: key}
}
