package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runStatisticsRouter(g *echo.Group, statsCtrl *controllers.StatisticsController) {
	g.GET("/statistics", statsCtrl.GetStatistics)
	g.GET("/statistics/dashboard", statsCtrl.GetDashboard)
	g.POST("/statistics/refresh", statsCtrl.Refresh)
}
