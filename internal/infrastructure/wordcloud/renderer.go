package wordcloud

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/zypric/backend/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	shrinkStep  = 2.0 // px removed from a font size that did not fit
	spiralStep  = 0.1 // radians per spiral step
	spiralGrow  = 1.5 // px of radius added per radian
	wordPadding = 2.0
)

// viridis-like palette
var palette = []color.Color{
	color.RGBA{0x44, 0x01, 0x54, 0xff},
	color.RGBA{0x3b, 0x52, 0x8b, 0xff},
	color.RGBA{0x21, 0x90, 0x8d, 0xff},
	color.RGBA{0x5d, 0xc8, 0x63, 0xff},
	color.RGBA{0x2c, 0x72, 0x8e, 0xff},
	color.RGBA{0x47, 0x2d, 0x7b, 0xff},
}

// Options controls the canvas and font sizes
type Options struct {
	Width       int
	Height      int
	MaxWords    int
	MinFontSize float64
	MaxFontSize float64
	Background  string // hex color, e.g. "#ffffff"
}

// Placement is where one word ended up on the canvas
type Placement struct {
	Word     string
	FontSize float64
	X, Y     float64 // top-left corner
	W, H     float64
}

func (p Placement) overlaps(o Placement) bool {
	return p.X < o.X+o.W+wordPadding && o.X < p.X+p.W+wordPadding &&
		p.Y < o.Y+o.H+wordPadding && o.Y < p.Y+p.H+wordPadding
}

// Renderer lays out weighted words on a spiral and encodes the canvas as PNG
type Renderer struct {
	opts  Options
	font  *truetype.Font
	blank []byte
}

// NewRenderer parses the bundled Go font and pre-renders the blank canvas
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid canvas %dx%d", domain.ErrRender, opts.Width, opts.Height)
	}
	if opts.MinFontSize <= 0 {
		opts.MinFontSize = 10
	}
	if opts.MaxFontSize < opts.MinFontSize {
		opts.MaxFontSize = opts.MinFontSize
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = 200
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing font: %v", domain.ErrRender, err)
	}

	r := &Renderer{opts: opts, font: f}
	blank, err := r.encode(r.newCanvas())
	if err != nil {
		return nil, err
	}
	r.blank = blank

	return r, nil
}

// Blank returns the empty canvas
func (r *Renderer) Blank() []byte {
	return r.blank
}

// Render draws the words, which must be sorted by descending weight
func (r *Renderer) Render(words []domain.WordWeight) (png []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			png, err = nil, fmt.Errorf("%w: %v", domain.ErrRender, rec)
		}
	}()

	if len(words) == 0 {
		return r.blank, nil
	}

	dc := r.newCanvas()
	for i, p := range r.Layout(words) {
		face := r.face(p.FontSize)
		dc.SetFontFace(face)
		dc.SetColor(palette[i%len(palette)])
		dc.DrawStringAnchored(p.Word, p.X+p.W/2, p.Y+p.H/2, 0.5, 0.35)
		face.Close()
	}

	return r.encode(dc)
}

// Layout places words largest first. A word's font size scales with its weight
// but never exceeds the size of the word before it. When a word does not fit it
// shrinks; once it would drop below MinFontSize layout stops.
func (r *Renderer) Layout(words []domain.WordWeight) []Placement {
	if len(words) > r.opts.MaxWords {
		words = words[:r.opts.MaxWords]
	}

	measure := gg.NewContext(1, 1)
	placed := make([]Placement, 0, len(words))
	lastSize := r.opts.MaxFontSize

	for _, w := range words {
		size := r.opts.MinFontSize + (r.opts.MaxFontSize-r.opts.MinFontSize)*w.Weight
		if size > lastSize {
			size = lastSize
		}

		for {
			if size < r.opts.MinFontSize {
				return placed
			}

			face := r.face(size)
			measure.SetFontFace(face)
			width, height := measure.MeasureString(w.Word)
			face.Close()

			if p, ok := r.findSpot(placed, width, height); ok {
				p.Word = w.Word
				p.FontSize = size
				placed = append(placed, p)
				lastSize = size
				break
			}
			size -= shrinkStep
		}
	}

	return placed
}

// findSpot walks an Archimedean spiral out from the canvas center
func (r *Renderer) findSpot(placed []Placement, width, height float64) (Placement, bool) {
	cw, ch := float64(r.opts.Width), float64(r.opts.Height)
	if width > cw || height > ch {
		return Placement{}, false
	}

	aspect := cw / ch
	maxRadius := math.Hypot(cw, ch) / 2

	for t := 0.0; ; t += spiralStep {
		radius := spiralGrow * t
		if radius > maxRadius {
			return Placement{}, false
		}

		candidate := Placement{
			X: cw/2 + radius*math.Cos(t)*aspect - width/2,
			Y: ch/2 + radius*math.Sin(t) - height/2,
			W: width,
			H: height,
		}
		if candidate.X < 0 || candidate.Y < 0 || candidate.X+width > cw || candidate.Y+height > ch {
			continue
		}

		free := true
		for _, other := range placed {
			if candidate.overlaps(other) {
				free = false
				break
			}
		}
		if free {
			return candidate, true
		}
	}
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{Size: size})
}

func (r *Renderer) newCanvas() *gg.Context {
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetHexColor(r.opts.Background)
	dc.Clear()
	return dc
}

func (r *Renderer) encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("%w: encoding png: %v", domain.ErrRender, err)
	}
	return buf.Bytes(), nil
}
