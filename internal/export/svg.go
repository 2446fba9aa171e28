package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/armsim/internal/viz"
)

// WriteSVG writes sc as a standalone SVG document. Primitives are emitted in
// scene order so later items paint over earlier ones.
func WriteSVG(w io.Writer, sc viz.Scene) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, sc.Width, sc.Height, sc.Width, sc.Height, sc.Background)

	for _, it := range sc.Items {
		if len(it.Points) == 0 {
			continue
		}
		switch it.Kind {
		case viz.KindLine, viz.KindPolyline:
			if len(it.Points) < 2 {
				continue
			}
			fmt.Fprintf(bw, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round"/>
`, points(it.Points), it.Color, it.Width)
		case viz.KindDot:
			p := it.Points[0]
			fmt.Fprintf(bw, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>
`, p.X, p.Y, it.Radius, it.Color)
		case viz.KindText:
			p := it.Points[0]
			fmt.Fprintf(bw, `<text x="%.2f" y="%.2f" fill="%s" font-family="monospace" font-size="12">`, p.X, p.Y, it.Color)
			if err := xml.EscapeText(bw, []byte(it.Text)); err != nil {
				return err
			}
			bw.WriteString("</text>\n")
		}
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func points(pts []viz.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", p.X, p.Y)
	}
	return sb.String()
}
