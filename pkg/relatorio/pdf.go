package relatorio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"vistoria.app/api/models"
)

// Zone is the fixed UTC-3 offset report dates are printed in.
var Zone = time.FixedZone("BRT", -3*60*60)

const (
	imageBoxWidth  = 450.0
	imageBoxHeight = 300.0
	signatureWidth = 120.0
	pageMargin     = 56.0
)

// Documento is everything printed in a report.
type Documento struct {
	GeradoEm    time.Time
	Local       string
	CEP         string
	Vistoriador string
	Texto       string
	Grupos      []Grupo
}

// Renderer produces the report file.
type Renderer interface {
	Render(doc Documento) ([]byte, error)
}

// PDFRenderer draws A4 pages with an optional background (vistoria.png) and
// signature (assinatura.png) read from assetsDir.
type PDFRenderer struct {
	assetsDir string
	log       *zap.Logger
}

func NewPDFRenderer(assetsDir string, log *zap.Logger) *PDFRenderer {
	return &PDFRenderer{assetsDir: assetsDir, log: log}
}

func (r *PDFRenderer) asset(name string) []byte {
	if r.assetsDir == "" {
		return nil
	}
	b, err := os.ReadFile(filepath.Join(r.assetsDir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("report asset unreadable", zap.String("asset", name), zap.Error(err))
		}
		return nil
	}
	return b
}

// register loads a PNG asset; a missing or broken asset is left out of the
// report.
func (r *PDFRenderer) register(pdf *fpdf.Fpdf, name, file string) bool {
	b := r.asset(file)
	if b == nil {
		return false
	}
	info := pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(b))
	if info == nil || pdf.Err() {
		r.log.Warn("report asset is not a usable PNG", zap.String("asset", file), zap.Error(pdf.Error()))
		pdf.ClearError()
		return false
	}
	return true
}

func local(c models.RelatorioContexto) string {
	s := c.NomeEmpreendimento
	if c.Bloco != nil && strings.TrimSpace(*c.Bloco) != "" {
		s += " - Bloco " + strings.TrimSpace(*c.Bloco)
	}
	if c.Numero != "" {
		s += " Nº " + c.Numero
	}
	return s
}

func (r *PDFRenderer) Render(doc Documento) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()

	if r.register(pdf, "fundo", "vistoria.png") {
		pdf.SetHeaderFunc(func() {
			pdf.ImageOptions("fundo", 0, 0, pageW, pageH, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			pdf.SetXY(pageMargin, pageMargin)
		})
	}

	// cover and narrative
	pdf.AddPage()
	pdf.Ln(24)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, tr("Relatório Técnico de Vistoria"), "", 1, "C", false, 0, "")
	pdf.Ln(12)

	at := doc.GeradoEm.In(Zone)
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Data: " + at.Format("02/01/2006"),
		"Hora: " + at.Format("15:04:05"),
		"Local: " + doc.Local,
	}
	if doc.CEP != "" {
		lines = append(lines, "CEP: "+doc.CEP)
	}
	lines = append(lines, "Vistoriador: "+doc.Vistoriador)
	for _, l := range lines {
		pdf.CellFormat(0, 16, tr(l), "", 1, "L", false, 0, "")
	}
	pdf.Ln(12)
	pdf.MultiCell(0, 15, tr(doc.Texto), "", "L", false)

	// one section per room
	usableBottom := pageH - pageMargin
	for gi, g := range doc.Grupos {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 20, tr("Imagens - "+g.Comodo), "", 1, "C", false, 0, "")
		pdf.Ln(8)

		for ii, img := range g.Imagens {
			name := fmt.Sprintf("img_%d_%d", gi, ii)
			opts := fpdf.ImageOptions{ImageType: "JPG"}
			info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
			if info == nil || pdf.Err() {
				return nil, fmt.Errorf("register image %s: %w", name, pdf.Error())
			}
			w, h := fitBox(info.Width(), info.Height(), imageBoxWidth, imageBoxHeight)
			if pdf.GetY()+h > usableBottom {
				pdf.AddPage()
			}
			x := (pageW - w) / 2
			pdf.ImageOptions(name, x, pdf.GetY(), w, h, false, opts, 0, "")
			pdf.SetY(pdf.GetY() + h + 12)
		}
	}

	// signature
	pdf.AddPage()
	if r.register(pdf, "assinatura", "assinatura.png") {
		info := pdf.GetImageInfo("assinatura")
		w, h := signatureSize(info.Width(), info.Height())
		pdf.ImageOptions("assinatura", pageMargin, pdf.GetY(), w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetY(pdf.GetY() + h + 6)
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 16, tr(doc.Vistoriador), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 16, tr("Responsável Técnico"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// signatureSize keeps the signature's aspect ratio, at most signatureWidth
// wide and four times that tall.
func signatureSize(w, h float64) (float64, float64) {
	return fitBox(w, h, signatureWidth, signatureWidth*4)
}

// fitBox scales w x h into the box keeping the aspect ratio.
func fitBox(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return boxW, boxH
	}
	r := boxW / w
	if boxH/h < r {
		r = boxH / h
	}
	return w * r, h * r
}
