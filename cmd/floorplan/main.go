package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/render"
)

// Renders a sample floor plan to floorplan.png so layout and palette
// changes can be checked without a running server.
func main() {
	restaurantID := uuid.New()

	tables := []*model.Table{
		{
			ID: uuid.New(), RestaurantID: restaurantID,
			Number: 1, Capacity: 2, Zone: model.ZoneInterior, Shape: model.ShapeSquare,
			Geometry: model.Geometry{X: 20, Y: 20, Width: 60, Height: 60},
		},
		{
			ID: uuid.New(), RestaurantID: restaurantID,
			Number: 2, Capacity: 4, Zone: model.ZoneInterior, Shape: model.ShapeRectangle,
			Geometry: model.Geometry{X: 120, Y: 20, Width: 100, Height: 60},
		},
		{
			ID: uuid.New(), RestaurantID: restaurantID,
			Number: 3, Capacity: 6, Zone: model.ZoneExterior, Shape: model.ShapeCircle,
			Geometry: model.Geometry{X: 280, Y: 40, Width: 90, Height: 90},
		},
		{
			ID: uuid.New(), RestaurantID: restaurantID,
			Number: 4, Capacity: 8, Zone: model.ZoneVIP, Shape: model.ShapeRectangle,
			Geometry: model.Geometry{X: 120, Y: 160, Width: 140, Height: 70},
		},
		{
			ID: uuid.New(), RestaurantID: restaurantID,
			Number: 5, Capacity: 2, Zone: model.ZoneBar, Shape: model.ShapeCircle,
			Geometry: model.Geometry{X: 320, Y: 200, Width: 50, Height: 50},
		},
	}

	// Mark one table occupied to check the tint.
	occupied := map[uuid.UUID]bool{tables[1].ID: true}

	filename := "floorplan.png"
	out, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Failed to create %s: %v\n", filename, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := render.FloorPlan(out, "Plano de muestra — 20:00", tables, occupied); err != nil {
		fmt.Printf("Failed to render floor plan: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Floor plan saved to %s (%d tables)\n", filename, len(tables))
}
