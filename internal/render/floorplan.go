package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"golang.org/x/image/font/basicfont"

	"github.com/reservafacil/backend/internal/model"
)

// Layout constants
const (
	padding      = 40.0
	headerHeight = 50.0
	minWidth     = 640
	minHeight    = 480
	strokeWidth  = 2.0
)

// Color scheme
var (
	bgColor       = color.RGBA{245, 246, 248, 255}
	headerColor   = color.RGBA{40, 44, 52, 255}
	labelColor    = color.RGBA{30, 34, 40, 255}
	outlineColor  = color.RGBA{90, 95, 100, 255}
	occupiedColor = color.RGBA{255, 138, 128, 255}

	zoneColors = map[model.ZoneKind]color.RGBA{
		model.ZoneInterior: {141, 193, 221, 255},
		model.ZoneExterior: {133, 193, 85, 255},
		model.ZoneVIP:      {212, 175, 55, 255},
		model.ZoneBar:      {186, 104, 200, 255},
	}
	defaultZoneColor = color.RGBA{200, 200, 200, 255}
)

// FloorPlan draws the restaurant's tables at their configured
// geometry. Tables in occupied are tinted red; the rest take their
// zone's color. The canvas grows to fit the layout.
func FloorPlan(w io.Writer, title string, tables []*model.Table, occupied map[uuid.UUID]bool) error {
	width, height := canvasSize(tables)
	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	dc.SetColor(headerColor)
	dc.DrawStringAnchored(title, float64(width)/2, headerHeight/2, 0.5, 0.5)

	for _, t := range tables {
		drawTable(dc, t, occupied[t.ID])
	}

	return dc.EncodePNG(w)
}

func canvasSize(tables []*model.Table) (int, int) {
	maxX, maxY := 0.0, 0.0
	for _, t := range tables {
		if x := t.Geometry.X + t.Geometry.Width; x > maxX {
			maxX = x
		}
		if y := t.Geometry.Y + t.Geometry.Height; y > maxY {
			maxY = y
		}
	}
	width := int(maxX + 2*padding)
	height := int(maxY + 2*padding + headerHeight)
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	return width, height
}

func drawTable(dc *gg.Context, t *model.Table, isOccupied bool) {
	x := t.Geometry.X + padding
	y := t.Geometry.Y + padding + headerHeight
	w := t.Geometry.Width
	h := t.Geometry.Height

	fill, ok := zoneColors[t.Zone]
	if !ok {
		fill = defaultZoneColor
	}
	if isOccupied {
		fill = occupiedColor
	}

	switch t.Shape {
	case model.ShapeCircle:
		r := w / 2
		dc.DrawCircle(x+r, y+h/2, r)
	case model.ShapeRectangle, model.ShapeSquare:
		dc.DrawRoundedRectangle(x, y, w, h, 6)
	default:
		dc.DrawRoundedRectangle(x, y, w, h, 6)
	}
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(outlineColor)
	dc.SetLineWidth(strokeWidth)
	dc.Stroke()

	dc.SetColor(labelColor)
	label := fmt.Sprintf("%d (%dp)", t.Number, t.Capacity)
	dc.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.5)
}
