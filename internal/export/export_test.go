package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/viz"
)

func testScene() viz.Scene {
	return viz.Scene{
		Width:      40,
		Height:     30,
		Background: "#000000",
		Items: []viz.Primitive{
			{Kind: viz.KindLine, Points: []viz.Point{{2, 15}, {38, 15}}, Color: "#ff0000", Width: 4},
			{Kind: viz.KindDot, Points: []viz.Point{{20, 5}}, Color: "#00ff00", Radius: 3},
			{Kind: viz.KindText, Points: []viz.Point{{1, 28}}, Color: "#ffffff", Text: "a<b & c"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", SVG, false},
		{".PNG", PNG, false},
		{"webp", WebP, false},
		{"gif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testScene()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="40" height="30"`,
		`fill="#000000"`,
		`<polyline points="2.00,15.00 38.00,15.00"`,
		`<circle cx="20.00" cy="5.00" r="3.0" fill="#00ff00"/>`,
		`a&lt;b &amp; c</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestRenderDeterministic(t *testing.T) {
	joints := arm.DefaultJoints()
	s := sim.NewState(joints, 1, sim.DefaultParams(joints))
	sc := viz.BuildScene(s, viz.DefaultOptions())

	for _, f := range []Format{SVG, PNG, WebP} {
		var a, b bytes.Buffer
		if err := Write(&a, sc, f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if err := Write(&b, sc, f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if a.Len() == 0 || !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("%s output not deterministic", f)
		}
	}
}

func TestRasterize(t *testing.T) {
	img := Rasterize(testScene())
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("bounds = %v", b)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"background", 39, 0, 0, 0, 0},
		{"line", 20, 15, 0xff, 0, 0},
		{"dot", 20, 5, 0, 0xff, 0},
	}
	for _, tt := range tests {
		c := img.RGBAAt(tt.x, tt.y)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b {
			t.Errorf("%s pixel = %v, want %d,%d,%d", tt.name, c, tt.r, tt.g, tt.b)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "arm.png")
	if err := WriteFile(path, testScene()); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}

	webp := filepath.Join(dir, "arm.webp")
	if err := WriteFile(webp, testScene()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(webp)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Error("not a WebP container")
	}

	if err := WriteFile(filepath.Join(dir, "arm.gif"), testScene()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("gif error = %v", err)
	}
}
