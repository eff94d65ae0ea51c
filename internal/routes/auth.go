package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runAuthRouter(g *echo.Group, authCtrl *controllers.AuthController) {
	g.POST("/auth/login", authCtrl.Login)
	g.POST("/auth/refresh", authCtrl.Refresh)
}
