package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runEquipmentTypeRouter(g *echo.Group, typeCtrl *controllers.EquipmentTypeController, specCtrl *controllers.SpecificationController) {
	g.GET("/equipment-types", typeCtrl.GetEquipmentTypes)
	g.GET("/equipment-types/:id", typeCtrl.FindEquipmentType)
	g.POST("/equipment-types", typeCtrl.CreateEquipmentType)
	g.PUT("/equipment-types/:id", typeCtrl.UpdateEquipmentType)
	g.DELETE("/equipment-types/:id", typeCtrl.DeleteEquipmentType)

	// Шаблоны и ключи характеристик в разрезе типа.
	g.GET("/equipment-types/:typeId/specifications", specCtrl.ListByType)
	g.GET("/equipment-types/:typeId/specification-keys", specCtrl.ListKeysForType)
}
