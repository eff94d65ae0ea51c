package services

import (
	"sort"

	"inventory-system/internal/entities"
)

// sortedKeys возвращает отсортированные ключи набора характеристик,
// чтобы обход map был детерминированным.
func sortedKeys(specs entities.Characteristics) []string {
	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
