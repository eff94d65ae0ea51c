package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runEquipmentRouter(
	g *echo.Group,
	equipmentCtrl *controllers.EquipmentController,
	lifecycleCtrl *controllers.LifecycleController,
	historyCtrl *controllers.HistoryController,
) {
	g.GET("/equipments", equipmentCtrl.GetEquipments)
	g.GET("/equipments/scan/:identifier", equipmentCtrl.Scan)
	g.GET("/equipments/:id", equipmentCtrl.FindEquipment)
	g.POST("/equipments", equipmentCtrl.CreateEquipment)
	g.POST("/equipments/bulk", equipmentCtrl.BulkCreate)
	g.POST("/equipments/import", equipmentCtrl.Import)
	g.PATCH("/equipments/inns", equipmentCtrl.BulkUpdateInns)
	g.PUT("/equipments/:id", equipmentCtrl.UpdateEquipment)
	g.DELETE("/equipments/:id", equipmentCtrl.DeleteEquipment)

	// Жизненный цикл и журналы.
	g.POST("/equipments/:id/transition", lifecycleCtrl.Transition)
	g.GET("/equipments/:id/movements", historyCtrl.ListMovements)
	g.GET("/equipments/:id/repairs", historyCtrl.ListRepairs)
	g.GET("/equipments/:id/disposal", historyCtrl.FindDisposal)
}
