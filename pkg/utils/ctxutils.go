package utils

import (
	"context"

	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok {
		return "", apperrors.ErrForbidden
	}
	return role, nil
}

// GetTenantScopeFromCtx достает разрешённую область тенанта.
// Область обязана быть установлена middleware — её отсутствие означает,
// что запрос прошёл мимо резолвера, и мы закрываемся.
func GetTenantScopeFromCtx(ctx context.Context) (types.TenantScope, error) {
	scope, ok := ctx.Value(contextkeys.TenantScopeKey).(types.TenantScope)
	if !ok {
		return types.TenantScope{}, apperrors.ErrTenantScopeNotFound
	}
	return scope, nil
}
