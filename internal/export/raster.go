package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/armsim/internal/viz"
)

// dotSegments is the polygon resolution used for dots and line caps.
const dotSegments = 16

// Rasterize paints sc into a new RGBA image of the scene size.
func Rasterize(sc viz.Scene) *image.RGBA {
	w, h := max(sc.Width, 1), max(sc.Height, 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorOf(sc.Background)), image.Point{}, draw.Src)

	z := vector.NewRasterizer(w, h)
	for _, it := range sc.Items {
		if len(it.Points) == 0 {
			continue
		}
		src := image.NewUniform(colorOf(it.Color))
		switch it.Kind {
		case viz.KindLine, viz.KindPolyline:
			half := math.Max(it.Width, 1) / 2
			for i := 1; i < len(it.Points); i++ {
				z.Reset(w, h)
				segment(z, it.Points[i-1], it.Points[i], half)
				z.Draw(img, img.Bounds(), src, image.Point{})
			}
			// Round joins and caps.
			if half > 1 {
				for _, p := range it.Points {
					z.Reset(w, h)
					disc(z, p, half)
					z.Draw(img, img.Bounds(), src, image.Point{})
				}
			}
		case viz.KindDot:
			z.Reset(w, h)
			disc(z, it.Points[0], math.Max(it.Radius, 0.5))
			z.Draw(img, img.Bounds(), src, image.Point{})
		case viz.KindText:
			p := it.Points[0]
			d := font.Drawer{
				Dst:  img,
				Src:  src,
				Face: basicfont.Face7x13,
				Dot:  fixed.P(int(math.Round(p.X)), int(math.Round(p.Y))),
			}
			d.DrawString(it.Text)
		}
	}
	return img
}

func segment(z *vector.Rasterizer, a, b viz.Point, half float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		disc(z, a, half)
		return
	}
	nx, ny := -dy/n*half, dx/n*half
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
}

func disc(z *vector.Rasterizer, c viz.Point, r float64) {
	for i := 0; i < dotSegments; i++ {
		a := 2 * math.Pi * float64(i) / dotSegments
		x, y := float32(c.X+r*math.Cos(a)), float32(c.Y+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func colorOf(hex string) color.RGBA {
	r, g, b := rgb(hex)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func WritePNG(w io.Writer, sc viz.Scene) error {
	return png.Encode(w, Rasterize(sc))
}

// WriteWebP writes a lossless WebP.
func WriteWebP(w io.Writer, sc viz.Scene) error {
	return nativewebp.Encode(w, Rasterize(sc), nil)
}
