package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает search, sort[...], filter[...], expand,
// limit/offset/page из query-параметров.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   map[string]string{},
		Filter: map[string]interface{}{},
		Limit:  DefaultLimit,
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		switch key {
		case "search":
			filterReq.Search = vals[0]
			continue
		case "limit":
			if l, err := strconv.Atoi(vals[0]); err == nil && l > 0 {
				if l > MaxLimit {
					l = MaxLimit
				}
				filterReq.Limit = l
			}
			continue
		case "offset":
			if o, err := strconv.Atoi(vals[0]); err == nil && o >= 0 {
				filterReq.Offset = o
			}
			continue
		case "page":
			if p, err := strconv.Atoi(vals[0]); err == nil && p > 0 {
				filterReq.Page = p
			}
			continue
		case "withPagination":
			filterReq.WithPagination, _ = strconv.ParseBool(vals[0])
			continue
		case "expand":
			for _, part := range strings.Split(vals[0], ",") {
				if part = strings.TrimSpace(part); part != "" {
					filterReq.Expand = append(filterReq.Expand, part)
				}
			}
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			if existing, ok := filterReq.Filter[field]; ok {
				filterReq.Filter[field] = fmt.Sprintf("%v,%s", existing, vals[0])
			} else {
				filterReq.Filter[field] = vals[0]
			}
		}
	}

	return filterReq
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := map[string]interface{}{
			"total_count": total[0],
			"page":        filter.Page,
			"limit":       filter.Limit,
			"total_pages": totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку доменной таксономии в HTTP-ответ:
// ValidationError -> 422, ConflictError -> 409, AuthorizationError -> 403,
// ErrNotFound -> 404, HttpError -> его код, остальное -> 500 без деталей.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		response := map[string]interface{}{
			"status":  false,
			"message": validationErr.Message,
		}
		if len(validationErr.Fields) > 0 {
			response["body"] = map[string]interface{}{"fields": validationErr.Fields}
		}
		return c.JSON(http.StatusUnprocessableEntity, response)
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"status":  false,
			"message": conflictErr.Message,
		})
	}

	var authErr *apperrors.AuthorizationError
	if errors.As(err, &authErr) {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  false,
			"message": authErr.Message,
		})
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  false,
			"message": apperrors.ErrNotFound.Error(),
		})
	}

	if errors.Is(err, apperrors.ErrForbidden) || errors.Is(err, apperrors.ErrTenantScopeNotFound) {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"status":  false,
			"message": err.Error(),
		})
	}

	if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrEmptyAuthHeader) ||
		errors.Is(err, apperrors.ErrInvalidAuthHeader) || errors.Is(err, apperrors.ErrInvalidToken) ||
		errors.Is(err, apperrors.ErrTokenExpired) {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  false,
			"message": err.Error(),
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Ошибка валидации: " + strings.Join(msgs, "; "),
		})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}
