package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type ZoneKind string

const (
	ZoneInterior ZoneKind = "interior"
	ZoneExterior ZoneKind = "exterior"
	ZoneVIP      ZoneKind = "vip"
	ZoneBar      ZoneKind = "bar"
)

// AllZoneKinds lists every zone a table may belong to.
var AllZoneKinds = []ZoneKind{ZoneInterior, ZoneExterior, ZoneVIP, ZoneBar}

func ValidZoneKind(z ZoneKind) bool {
	for _, k := range AllZoneKinds {
		if k == z {
			return true
		}
	}
	return false
}

// Zone is a named area of the floor, configured per restaurant.
type Zone struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Kind         ZoneKind  `json:"kind"`
	Label        string    `json:"label"`
	CreatedAt    time.Time `json:"created_at"`
}

type TableShape string

const (
	ShapeSquare    TableShape = "square"
	ShapeCircle    TableShape = "circle"
	ShapeRectangle TableShape = "rectangle"
)

type TableKind string

const (
	TableStandard   TableKind = "standard"
	TableWindow     TableKind = "window"
	TablePrivate    TableKind = "private"
	TableSmoking    TableKind = "smoking"
	TableNonSmoking TableKind = "non-smoking"
	TableBar        TableKind = "bar"
)

// Geometry places a table on the floor plan. Rendering only, never
// consulted by the scheduler except for group-separation distance.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (g Geometry) Center() (float64, float64) {
	return g.X + g.Width/2, g.Y + g.Height/2
}

func (g Geometry) DistanceTo(o Geometry) float64 {
	ax, ay := g.Center()
	bx, by := o.Center()
	return math.Hypot(ax-bx, ay-by)
}

type Table struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	Number       int        `json:"number"`
	Capacity     int        `json:"capacity"`
	Zone         ZoneKind   `json:"zone"`
	Shape        TableShape `json:"shape"`
	Kind         TableKind  `json:"kind"`
	Geometry     Geometry   `json:"geometry"`
	Features     []string   `json:"features"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (t *Table) HasFeature(name string) bool {
	for _, f := range t.Features {
		if f == name {
			return true
		}
	}
	return false
}
