// Package summary renders the daily complaint digest as a PNG table.
package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"smartcity/internal/store"

	"github.com/fogleman/gg"
)

// Entry is one digest row: a complaint with its joined display fields.
type Entry struct {
	ID      string
	Title   string
	Status  string
	Citizen string
	Worker  string
	Created string
}

// FromComplaints flattens enriched complaints into digest rows.
func FromComplaints(complaints []store.EnrichedComplaint) []Entry {
	entries := make([]Entry, 0, len(complaints))
	for _, c := range complaints {
		created := ""
		if c.CreatedOn != nil {
			created = c.CreatedOn.Format("02 Jan 2006")
		}
		worker := ""
		if c.WorkerID != "" {
			worker = c.WorkerID
		}
		entries = append(entries, Entry{
			ID:      c.ID,
			Title:   truncate(c.Title, 40),
			Status:  c.Status,
			Citizen: c.UserName,
			Worker:  worker,
			Created: created,
		})
	}
	return entries
}

// Table styling - rendered at 2x scale for Telegram clarity
const (
	cellPaddingX = 20
	rowHeight    = 64.0
	headerHeight = 80.0
	fontSize     = 24
	titleFontSz  = 36
	titlePadding = 100.0
	footerPad    = 70.0
	minColWidth  = 120.0
	margin       = 40.0
)

var (
	bgColor         = color.RGBA{R: 245, G: 247, B: 250, A: 255}
	titleColor      = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	headerBgColor   = color.RGBA{R: 5, G: 122, B: 85, A: 255} // civic green
	headerTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rowEvenColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rowOddColor     = color.RGBA{R: 236, G: 245, B: 241, A: 255}
	textColor       = color.RGBA{R: 30, G: 41, B: 59, A: 255}
	borderColor     = color.RGBA{R: 203, G: 213, B: 225, A: 255}
	footerColor     = color.RGBA{R: 100, G: 116, B: 139, A: 255}
)

// column maps a header to an Entry field.
type column struct {
	header string
	field  func(e *Entry) string
}

var columns = []column{
	{"Complaint", func(e *Entry) string { return e.ID }},
	{"Title", func(e *Entry) string { return e.Title }},
	{"Status", func(e *Entry) string { return e.Status }},
	{"Citizen", func(e *Entry) string { return e.Citizen }},
	{"Worker", func(e *Entry) string { return e.Worker }},
	{"Created", func(e *Entry) string { return e.Created }},
}

// findFont locates a usable TTF across Linux and Windows installs.
func findFont(bold bool) string {
	var candidates []string
	if runtime.GOOS == "windows" {
		winRoot := os.Getenv("WINDIR")
		if winRoot == "" {
			winRoot = `C:\Windows`
		}
		if bold {
			candidates = []string{winRoot + `\Fonts\arialbd.ttf`}
		} else {
			candidates = []string{winRoot + `\Fonts\arial.ttf`}
		}
	} else {
		if bold {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			}
		} else {
			candidates = []string{
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/TTF/DejaVuSans.ttf",
			}
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return candidates[0]
}

// RenderDigest renders the digest rows as a table image and returns PNG
// bytes. Completed and penalized rows sort to the bottom so open work reads
// first.
func RenderDigest(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no complaints to render")
	}

	rank := map[string]int{
		store.StatusNotAssigned: 0,
		store.StatusAssigned:    1,
		store.StatusInProgress:  2,
		store.StatusCompleted:   3,
		store.StatusPenalized:   4,
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return rank[entries[i].Status] < rank[entries[j].Status]
	})

	boldFont := findFont(true)
	regularFont := findFont(false)

	// Measure column widths against headers and data
	tmpDC := gg.NewContext(1, 1)
	if err := tmpDC.LoadFontFace(boldFont, fontSize); err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	colWidths := make([]float64, len(columns))
	for i, col := range columns {
		w, _ := tmpDC.MeasureString(col.header)
		colWidths[i] = w + cellPaddingX*2
		if colWidths[i] < minColWidth {
			colWidths[i] = minColWidth
		}
	}
	if err := tmpDC.LoadFontFace(regularFont, fontSize); err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	for i := range entries {
		for c, col := range columns {
			w, _ := tmpDC.MeasureString(col.field(&entries[i]))
			if needed := w + cellPaddingX*2; needed > colWidths[c] {
				colWidths[c] = needed
			}
		}
	}

	var tableWidth float64
	for _, w := range colWidths {
		tableWidth += w
	}
	canvasWidth := tableWidth + margin*2
	canvasHeight := titlePadding + headerHeight + rowHeight*float64(len(entries)) + footerPad

	dc := gg.NewContext(int(canvasWidth), int(canvasHeight))
	dc.SetColor(bgColor)
	dc.Clear()

	// Title
	dc.LoadFontFace(boldFont, titleFontSz)
	dc.SetColor(titleColor)
	title := fmt.Sprintf("Complaint Digest  —  %s", time.Now().Format("02 Jan 2006, 03:04 PM"))
	dc.DrawStringAnchored(title, canvasWidth/2, titlePadding/2, 0.5, 0.5)

	tableX := margin
	tableY := titlePadding

	// Header
	dc.SetColor(headerBgColor)
	dc.DrawRoundedRectangle(tableX, tableY, tableWidth, headerHeight, 14)
	dc.Fill()
	dc.LoadFontFace(boldFont, fontSize)
	dc.SetColor(headerTextColor)
	x := tableX
	for i, col := range columns {
		dc.DrawStringAnchored(col.header, x+colWidths[i]/2, tableY+headerHeight/2, 0.5, 0.5)
		x += colWidths[i]
	}

	// Rows
	dc.LoadFontFace(regularFont, fontSize)
	curY := tableY + headerHeight
	for rowIdx := range entries {
		if rowIdx%2 == 0 {
			dc.SetColor(rowEvenColor)
		} else {
			dc.SetColor(rowOddColor)
		}
		dc.DrawRectangle(tableX, curY, tableWidth, rowHeight)
		dc.Fill()

		dc.SetColor(textColor)
		x := tableX
		for c, col := range columns {
			dc.DrawStringAnchored(col.field(&entries[rowIdx]), x+cellPaddingX, curY+rowHeight/2, 0, 0.5)
			x += colWidths[c]
		}

		dc.SetColor(borderColor)
		dc.SetLineWidth(0.5)
		dc.DrawLine(tableX, curY+rowHeight, tableX+tableWidth, curY+rowHeight)
		dc.Stroke()

		curY += rowHeight
	}

	// Outer border
	dc.SetColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(tableX, tableY, tableWidth, headerHeight+rowHeight*float64(len(entries)), 14)
	dc.Stroke()

	// Footer with per-status counts
	counts := map[string]int{}
	for i := range entries {
		counts[entries[i].Status]++
	}
	open := len(entries) - counts[store.StatusCompleted] - counts[store.StatusPenalized]
	dc.LoadFontFace(regularFont, 22)
	dc.SetColor(footerColor)
	footer := fmt.Sprintf("Total: %d complaints  •  %d open  •  %d completed",
		len(entries), open, counts[store.StatusCompleted])
	dc.DrawStringAnchored(footer, canvasWidth/2, canvasHeight-28, 0.5, 0.5)

	return encodeImage(dc.Image())
}

func encodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLen {
		runes := []rune(s)
		return string(runes[:maxLen]) + "…"
	}
	return s
}
