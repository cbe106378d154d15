package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"oss.terrastruct.com/xdefer"

	"flock/selection"
)

var errNothingToExport = errors.New("nothing to export")

const (
	charWidth     = 8.0
	charHeight    = 16.0
	exportPadding = 2
)

// exportVisualTXT writes the diagram as the current view shows it, without
// selection marks or cursor.
func (m *model) exportVisualTXT(filename string) (err error) {
	defer xdefer.Errorf(&err, "failed to export %s", filename)

	buf := m.getCurrentBuffer()
	if buf == nil || buf.canvas.Empty() {
		return errNothingToExport
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range buf.surface.RenderPlain() {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// ExportToPNG draws the whole canvas. Boxes for which selected reports true
// are outlined in highlight.
func (c *Canvas) ExportToPNG(filename string, selected func(id int) bool, highlight string) (err error) {
	defer xdefer.Errorf(&err, "failed to export %s", filename)

	minP, maxP, ok := c.Bounds()
	if !ok {
		return errNothingToExport
	}
	minX, minY := minP.X-exportPadding, minP.Y-exportPadding
	maxX, maxY := maxP.X+exportPadding, maxP.Y+exportPadding

	imageWidth := int(float64(maxX-minX) * charWidth)
	imageHeight := int(float64(maxY-minY) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	hl := parseHexColor(highlight)
	origin := point{minX, minY}
	for _, conn := range c.connections {
		drawConnectionPNG(dc, conn, origin)
	}
	for _, box := range c.boxes {
		drawBoxPNG(dc, box, origin, selected != nil && selected(box.ID), hl)
	}

	return dc.SavePNG(filename)
}

func pixel(p, origin point) (float64, float64) {
	return (float64(p.X-origin.X) + 0.5) * charWidth, (float64(p.Y-origin.Y) + 0.5) * charHeight
}

func drawConnectionPNG(dc *gg.Context, conn *Connection, origin point) {
	points := connectionPath(conn)
	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	for i := 0; i < len(points)-1; i++ {
		x1, y1 := pixel(points[i], origin)
		x2, y2 := pixel(points[i+1], origin)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	if conn.ArrowTo {
		drawArrowPNG(dc, points[len(points)-2], points[len(points)-1], origin)
	}
	if conn.ArrowFrom {
		drawArrowPNG(dc, points[1], points[0], origin)
	}
}

func drawArrowPNG(dc *gg.Context, from, to, origin point) {
	fx, fy := pixel(from, origin)
	tx, ty := pixel(to, origin)

	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const (
		arrowSize  = 6.0
		arrowAngle = 0.5
	)
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawBoxPNG(dc *gg.Context, box *Box, origin point, selected bool, highlight color.Color) {
	x := float64(box.X-origin.X) * charWidth
	y := float64(box.Y-origin.Y) * charHeight
	width := float64(box.Width) * charWidth
	height := float64(box.Height) * charHeight

	dc.SetColor(color.White)
	dc.DrawRectangle(x, y, width, height)
	dc.Fill()

	if selected {
		dc.SetLineWidth(3.0)
		dc.SetColor(highlight)
	} else {
		dc.SetLineWidth(1.0)
		dc.SetColor(color.Black)
	}
	dc.DrawRectangle(x, y, width, height)
	dc.Stroke()

	dc.SetColor(color.Black)
	for i, line := range box.Lines {
		dc.DrawString(line, x+charWidth, y+float64(i+2)*charHeight-4)
	}
}

// parseHexColor reads #rgb or #rrggbb and falls back to the default
// highlight color.
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{r, g, b, 255}
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err == nil {
			return color.RGBA{r * 17, g * 17, b * 17, 255}
		}
	}
	if s == selection.DefaultColor {
		return color.RGBA{0x21, 0x96, 0xf3, 255}
	}
	return parseHexColor(selection.DefaultColor)
}
