package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type SpecificationController struct {
	specService *services.SpecificationService
	logger      *zap.Logger
}

func NewSpecificationController(specService *services.SpecificationService, logger *zap.Logger) *SpecificationController {
	return &SpecificationController{specService: specService, logger: logger}
}

func (c *SpecificationController) CreateSpecification(ctx echo.Context) error {
	var payload dto.CreateSpecificationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.specService.CreateSpecification(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Шаблон характеристик создан", http.StatusCreated)
}

func (c *SpecificationController) FindSpecification(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.specService.FindSpecification(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Шаблон характеристик найден", http.StatusOK)
}

func (c *SpecificationController) UpdateSpecification(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateSpecificationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.specService.UpdateSpecification(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Шаблон характеристик обновлён", http.StatusOK)
}

func (c *SpecificationController) DeleteSpecification(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.specService.DeleteSpecification(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Шаблон характеристик удалён", http.StatusOK)
}

// ListByType отдаёт шаблоны типа в порядке создания.
func (c *SpecificationController) ListByType(ctx echo.Context) error {
	typeID, err := parseTypeIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.specService.ListByType(ctx.Request().Context(), typeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Шаблоны типа получены", http.StatusOK)
}

// ListKeysForType отдаёт различные пары {key, display} по шаблонам типа.
func (c *SpecificationController) ListKeysForType(ctx echo.Context) error {
	typeID, err := parseTypeIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.specService.ListKeysForType(ctx.Request().Context(), typeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Ключи характеристик получены", http.StatusOK)
}

func parseTypeIDParam(ctx echo.Context) (uint64, error) {
	typeID, err := strconv.ParseUint(ctx.Param("typeId"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID типа", err,
			map[string]interface{}{"param": ctx.Param("typeId")})
	}
	return typeID, nil
}
