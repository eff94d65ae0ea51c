package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runSpecificationRouter(g *echo.Group, specCtrl *controllers.SpecificationController) {
	g.POST("/specifications", specCtrl.CreateSpecification)
	g.GET("/specifications/:id", specCtrl.FindSpecification)
	g.PUT("/specifications/:id", specCtrl.UpdateSpecification)
	g.DELETE("/specifications/:id", specCtrl.DeleteSpecification)
}
