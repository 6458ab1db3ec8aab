package sitelayout

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// ColourScheme defines how layout features are drawn in plan previews.
type ColourScheme struct {
	Boundary      color.Color
	Exclusion     color.Color
	Asset         color.Color
	Unreachable   color.Color
	PrimaryRoad   color.Color
	SecondaryRoad color.Color
	Entry         color.Color
}

// DefaultColourScheme returns sensible default colours.
func DefaultColourScheme() *ColourScheme {
	return &ColourScheme{
		Boundary:      colornames.Black,
		Exclusion:     colornames.Indianred,
		Asset:         colornames.Steelblue,
		Unreachable:   colornames.Orange,
		PrimaryRoad:   colornames.Dimgray,
		SecondaryRoad: colornames.Darkgray,
		Entry:         colornames.Crimson,
	}
}

// SavePlanPNG renders the layout over a hillshaded terrain backdrop and
// writes it to fpath. Scale is pixels per frame unit; a nil scheme uses
// the defaults. Intended for eyeballing results, not survey output.
func SavePlanPNG(fpath string, req *Request, res *LayoutResult, cfg Config, scale float64, scheme *ColourScheme) error {
	if scheme == nil {
		scheme = DefaultColourScheme()
	}
	if scale <= 0 {
		scale = 1
	}
	cfg = cfg.withDefaults()

	boundary := geom.NewPolygon(toCoords(req.Boundary))
	terrain, err := NewTerrainModel(boundary, req.Samples, cfg)
	if err != nil {
		return err
	}

	min, max := boundary.Bounds()
	w := int(math.Ceil((max.X-min.X)*scale)) + 1
	h := int(math.Ceil((max.Y-min.Y)*scale)) + 1

	// image y runs down, frame y runs up
	px := func(p Point) (float64, float64) {
		return (p.X - min.X) * scale, (max.Y - p.Y) * scale
	}

	ctx := gg.NewContext(w, h)
	ctx.SetColor(colornames.White)
	ctx.Clear()

	drawHillshade(ctx, terrain, min.X, max.Y, scale, cfg)

	drawRing := func(pts []Point, fill bool, c color.Color) {
		if len(pts) < 3 {
			return
		}
		ctx.NewSubPath()
		for i, p := range pts {
			x, y := px(p)
			if i == 0 {
				ctx.MoveTo(x, y)
			} else {
				ctx.LineTo(x, y)
			}
		}
		ctx.ClosePath()
		ctx.SetColor(c)
		if fill {
			ctx.Fill()
		} else {
			ctx.SetLineWidth(2)
			ctx.Stroke()
		}
	}

	for _, z := range req.Exclusions {
		drawRing(z.Ring, true, withAlpha(scheme.Exclusion, 160))
	}
	for _, z := range req.Regulatory {
		drawRing(z.Ring, true, withAlpha(scheme.Exclusion, 100))
	}

	if res != nil && res.Roads != nil {
		for _, seg := range res.Roads.Segments {
			c := scheme.SecondaryRoad
			if seg.Class == RoadPrimary {
				c = scheme.PrimaryRoad
			}
			ctx.SetColor(c)
			ctx.SetLineWidth(math.Max(seg.Width*scale, 1))
			for i, p := range seg.Centerline {
				x, y := px(p)
				if i == 0 {
					ctx.MoveTo(x, y)
				} else {
					ctx.LineTo(x, y)
				}
			}
			ctx.Stroke()
		}
	}

	if res != nil {
		for _, a := range res.Assets {
			c := scheme.Asset
			if a.Unreachable {
				c = scheme.Unreachable
			}
			drawRing(a.Footprint, true, c)
		}
	}

	drawRing(req.Boundary, false, scheme.Boundary)

	ex, ey := px(req.Entry)
	ctx.SetColor(scheme.Entry)
	ctx.DrawCircle(ex, ey, math.Max(4, 6*scale))
	ctx.Fill()

	return savePNG(fpath, ctx.Image())
}

// drawHillshade paints the terrain backdrop in grayscale.
func drawHillshade(ctx *gg.Context, t *TerrainModel, minX, maxY, scale float64, cfg Config) {
	g := t.Grid()
	shade := t.Hillshade(cfg.HillshadeAzimuth, cfg.HillshadeAltitude)

	cellPx := g.CellSize * scale
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := uint8(shade[r*g.Cols+c] * 255)
			x, y := g.CellCenter(c, r)
			ctx.SetColor(color.RGBA{v, v, v, 255})
			ctx.DrawRectangle(
				(x-minX)*scale-cellPx/2,
				(maxY-y)*scale-cellPx/2,
				cellPx+1, cellPx+1,
			)
			ctx.Fill()
		}
	}
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), a}
}
