package middleware

import (
	"context"
	"errors"
	"net/http"

	"inventory-system/pkg/constants"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantStore — минимальный контракт для поиска тенанта по ключу.
// Реализуется репозиторием университетов.
type TenantStore interface {
	// ResolveTenantKey возвращает id тенанта и флаг активности.
	ResolveTenantKey(ctx context.Context, key string) (uint64, bool, error)
}

// TenantMiddleware резолвит X-Tenant-Key в types.TenantScope.
//
// Правила (как в оригинальном XTenantKeyMiddleware):
//   - админ без заголовка работает в явной глобальной области —
//     репозитории не фильтруют по тенанту, факт логируется;
//   - админ с заголовком работает в области указанного тенанта;
//   - не-админ обязан передать заголовок, совпадающий с тенантом из
//     его токена; несовпадение закрывается AuthorizationError;
//   - деактивированный тенант — отказ для всех.
type TenantMiddleware struct {
	store  TenantStore
	logger *zap.Logger
}

func NewTenantMiddleware(store TenantStore, logger *zap.Logger) *TenantMiddleware {
	return &TenantMiddleware{store: store, logger: logger}
}

func (m *TenantMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("claims").(*service.JwtCustomClaim)
		if !ok || claims == nil {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		tenantKey := c.Request().Header.Get(constants.HeaderTenantKey)
		ctx := c.Request().Context()

		var scope types.TenantScope

		switch {
		case claims.Role == constants.RoleAdmin && tenantKey == "":
			// Явный суперпользовательский режим, никакого тихого
			// отката на тенант по умолчанию.
			scope = types.GlobalScope()
			m.logger.Info("TenantMiddleware: админ работает в глобальной области",
				zap.Uint64("userID", claims.UserID))

		case tenantKey != "":
			universityID, active, err := m.store.ResolveTenantKey(ctx, tenantKey)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return utils.ErrorResponse(c, apperrors.NewHttpError(
						http.StatusBadRequest,
						"Недействительный X-Tenant-Key: "+tenantKey,
						nil, nil,
					), m.logger)
				}
				return utils.ErrorResponse(c, err, m.logger)
			}
			if !active {
				return utils.ErrorResponse(c,
					apperrors.NewAuthorizationError("Тенант деактивирован"), m.logger)
			}

			// Не-админ может работать только в своём тенанте.
			if claims.Role != constants.RoleAdmin {
				if claims.UniversityID == nil || *claims.UniversityID != universityID {
					m.logger.Warn("TenantMiddleware: несовпадение области тенанта",
						zap.Uint64("userID", claims.UserID),
						zap.String("tenantKey", tenantKey))
					return utils.ErrorResponse(c,
						apperrors.NewAuthorizationError("Тенант не соответствует учётной записи"), m.logger)
				}
			}
			scope = types.ScopeFor(universityID, tenantKey)

		default:
			// Не-админ без заголовка — отказ.
			return utils.ErrorResponse(c,
				apperrors.NewAuthorizationError("Заголовок X-Tenant-Key обязателен"), m.logger)
		}

		c.SetRequest(c.Request().WithContext(
			context.WithValue(ctx, contextkeys.TenantScopeKey, scope)))
		return next(c)
	}
}
