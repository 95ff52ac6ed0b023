package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// Writer persists block sequences as timestamped PDF files under Dir.
// Local I/O errors propagate to the caller; there is no retry.
type Writer struct {
	Dir    string
	Prefix string

	// Injectable for tests.
	Now func() time.Time
}

func NewWriter(dir, prefix string) *Writer {
	return &Writer{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Write renders blocks to "<prefix>_<YYYYMMDD_HHMMSS>.pdf" under Dir,
// creating the directory if absent, and returns the file path.
func (w *Writer) Write(blocks []Block) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create output dir: %w", err)
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	name := fmt.Sprintf("%s_%s.pdf", w.Prefix, now().Format("20060102_150405"))
	path := filepath.Join(w.Dir, name)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, b := range blocks {
		switch b.Style {
		case StyleTitle:
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 9, tr(b.Text), "", "L", false)
		case StyleMeta:
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Write(5, tr(b.Label+": "))
			pdf.SetFont("Helvetica", "", 10)
			pdf.Write(5, tr(b.Text))
			pdf.Ln(5)
		case StyleHeading:
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
		case StyleSubheading:
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, tr(b.Text), "", "L", false)
		case StyleBody:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(b.Text), "", "L", false)
		case StyleCode:
			pdf.SetFont("Courier", "", 9)
			pdf.MultiCell(0, 4.5, tr(b.Text), "", "L", false)
		case StyleAlert:
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(200, 0, 0)
			pdf.MultiCell(0, 5, tr(b.Text), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case StyleSpacer:
			pdf.Ln(4)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}
