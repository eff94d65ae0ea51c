package repositories

import (
	sq "github.com/Masterminds/squirrel"

	"inventory-system/pkg/types"
)

// psql — общий построитель запросов с плейсхолдерами $1, $2, ...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// applyScope навешивает обязательный тенантный предикат на запрос.
// Глобальная область (суперпользовательский режим) — единственный
// случай, когда предикат не добавляется.
func applyScope(b sq.SelectBuilder, scope types.TenantScope, column string) sq.SelectBuilder {
	if scope.Global {
		return b
	}
	return b.Where(sq.Eq{column: scope.UniversityID})
}

// scopeCond — тот же предикат в виде условия для Update/Delete.
func scopeCond(scope types.TenantScope, column string) sq.Sqlizer {
	if scope.Global {
		return nil
	}
	return sq.Eq{column: scope.UniversityID}
}
