// Package pdfinfo reads page count and page size from print-ready PDFs.
package pdfinfo

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pointsPerInch = 72.0

// ErrNotPDF is returned for files without a .pdf extension or PDF header.
var ErrNotPDF = errors.New("not a PDF file")

// Info describes a PDF document.
type Info struct {
	Pages int `json:"pages"`

	// WidthIn and HeightIn are the first page media box in inches, rounded
	// to two decimals. Zero when the media box cannot be read.
	WidthIn  float64 `json:"width_in,omitempty"`
	HeightIn float64 `json:"height_in,omitempty"`
}

// SizeString renders the page size the way job sizes are written, e.g. "24x36".
func (i Info) SizeString() string {
	if i.WidthIn == 0 || i.HeightIn == 0 {
		return ""
	}
	return fmt.Sprintf("%sx%s", trimFloat(i.WidthIn), trimFloat(i.HeightIn))
}

// Inspect opens path and reads its page tree. Malformed documents return an
// error rather than panicking.
func Inspect(path string) (info *Info, err error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, ErrNotPDF
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("read pdf %s: %v", filepath.Base(path), r)
		}
	}()

	r, err := pdf.NewReader(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	info = &Info{Pages: r.NumPage()}
	if info.Pages > 0 {
		info.WidthIn, info.HeightIn = mediaBoxInches(r.Page(1).V)
	}
	return info, nil
}

// mediaBoxInches reads the page media box, walking up Parent links since
// the box is inheritable.
func mediaBoxInches(page pdf.Value) (float64, float64) {
	for v, depth := page, 0; !v.IsNull() && depth < 32; v, depth = v.Key("Parent"), depth+1 {
		box := v.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() != 4 {
			continue
		}
		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		return round2(math.Abs(w) / pointsPerInch), round2(math.Abs(h) / pointsPerInch)
	}
	return 0, 0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
