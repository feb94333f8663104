package relatorio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Field name prefixes tying an uploaded file to a room category.
var anexoPrefixes = []string{"attachment_", "anexos_"}

const (
	maxImageWidth  = 900
	maxImageHeight = 600
	// Decoding allocates width*height*4 bytes before resizing.
	maxImagePixels = 40_000_000
)

// Anexo is one uploaded file.
type Anexo struct {
	Field    string
	Filename string
	Data     []byte
}

// Grupo holds the images of one room category.
type Grupo struct {
	Comodo  string
	Imagens [][]byte
}

func roomOf(field string) (string, bool) {
	for _, p := range anexoPrefixes {
		if strings.HasPrefix(field, p) && len(field) > len(p) {
			return field[len(p):], true
		}
	}
	return "", false
}

// GroupAnexos groups files by room in report order, keeping upload order
// inside a room. Files without a room prefix are dropped.
func GroupAnexos(anexos []Anexo) []Grupo {
	byRoom := map[string]*Grupo{}
	var names []string
	for _, a := range anexos {
		room, ok := roomOf(a.Field)
		if !ok {
			continue
		}
		g, seen := byRoom[room]
		if !seen {
			g = &Grupo{Comodo: room}
			byRoom[room] = g
			names = append(names, room)
		}
		g.Imagens = append(g.Imagens, a.Data)
	}
	sortRooms(names)

	out := make([]Grupo, 0, len(names))
	for _, n := range names {
		out = append(out, *byRoom[n])
	}
	return out
}

// normalizeImage decodes any supported format, downsizes it to fit
// maxImageWidth x maxImageHeight and re-encodes it as JPEG.
func normalizeImage(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image size %dx%d outside 1..%d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxImageWidth, maxImageHeight)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// white under transparent pixels
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales w x h down into maxW x maxH keeping the aspect ratio. It never
// scales up.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < r {
		r = rh
	}
	nw, nh := int(float64(w)*r+0.5), int(float64(h)*r+0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// normalizeGrupos drops images that cannot be decoded and rooms left empty.
func normalizeGrupos(grupos []Grupo, log *zap.Logger) []Grupo {
	out := make([]Grupo, 0, len(grupos))
	for _, g := range grupos {
		n := Grupo{Comodo: g.Comodo}
		for i, img := range g.Imagens {
			j, err := normalizeImage(img)
			if err != nil {
				log.Warn("skipping attachment", zap.String("comodo", g.Comodo), zap.Int("index", i), zap.Error(err))
				continue
			}
			n.Imagens = append(n.Imagens, j)
		}
		if len(n.Imagens) > 0 {
			out = append(out, n)
		}
	}
	return out
}
