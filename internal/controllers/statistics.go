package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type StatisticsController struct {
	statsService *services.StatisticsService
	logger       *zap.Logger
}

func NewStatisticsController(statsService *services.StatisticsService, logger *zap.Logger) *StatisticsController {
	return &StatisticsController{statsService: statsService, logger: logger}
}

// GetStatistics отдаёт полную статистику области.
// ?refresh=true принудительно пересчитывает кеш.
func (c *StatisticsController) GetStatistics(ctx echo.Context) error {
	refresh, _ := strconv.ParseBool(ctx.QueryParam("refresh"))

	res, err := c.statsService.GetStatistics(ctx.Request().Context(), refresh)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статистика получена", http.StatusOK)
}

func (c *StatisticsController) GetDashboard(ctx echo.Context) error {
	refresh, _ := strconv.ParseBool(ctx.QueryParam("refresh"))

	res, err := c.statsService.GetDashboard(ctx.Request().Context(), refresh)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Сводка для дашборда получена", http.StatusOK)
}

// Refresh принудительно пересчитывает оба кеш-слота области.
func (c *StatisticsController) Refresh(ctx echo.Context) error {
	if err := c.statsService.RefreshAll(ctx.Request().Context()); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Кеш статистики пересчитан", http.StatusOK)
}
