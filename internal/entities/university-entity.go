package entities

import "inventory-system/pkg/types"

// University — тенант системы. Key используется в заголовке X-Tenant-Key.
type University struct {
	ID       uint64 `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"`

	types.BaseEntity
}
