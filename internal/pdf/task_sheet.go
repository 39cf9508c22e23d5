package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"goodsgo/internal/models"
)

// RunSheet is a printable task list for the staff on the ground.
type RunSheet struct {
	Title       string
	GeneratedAt time.Time
	Filters     []models.FilterTag
	Tasks       []models.AdminTask
}

// SheetGenerator renders run sheets. Japanese text needs a UTF-8 TTF;
// without FontPath the core Helvetica font is used.
type SheetGenerator struct {
	FontPath string
	fontName string
}

func NewSheetGenerator(fontPath string) *SheetGenerator {
	return &SheetGenerator{FontPath: fontPath, fontName: "NotoSansJP"}
}

// ErrNoFont means Japanese text will not render: no TTF is configured.
var ErrNoFont = errors.New("no UTF-8 font configured for run sheets")

// CheckFont reports whether the configured font can be loaded.
func (g *SheetGenerator) CheckFont() error {
	if g.FontPath == "" {
		return ErrNoFont
	}
	if _, err := os.Stat(g.FontPath); err != nil {
		return fmt.Errorf("run sheet font: %w", err)
	}
	return nil
}

type column struct {
	title string
	width float64
	align string
	value func(t models.AdminTask) string
}

var sheetColumns = []column{
	{"日程", 22, "C", func(t models.AdminTask) string { return t.EventDayType.Label() }},
	{"状態", 18, "C", func(t models.AdminTask) string { return t.CurrentStatus.Label() }},
	{"物品", 45, "L", func(t models.AdminTask) string { return t.ItemName }},
	{"数量", 14, "R", func(t models.AdminTask) string { return strconv.Itoa(t.Quantity) }},
	{"搬入元", 40, "L", func(t models.AdminTask) string { return t.FromLocationName }},
	{"搬入先", 40, "L", func(t models.AdminTask) string { return t.ToLocationName }},
	{"予定", 26, "C", func(t models.AdminTask) string { return t.ScheduledStartTime + "-" + t.ScheduledEndTime }},
	{"指揮者", 30, "L", func(t models.AdminTask) string { return deref(t.LeaderName) }},
	{"備考", 42, "L", func(t models.AdminTask) string { return deref(t.Note) }},
}

// Write renders the sheet as an A4 landscape PDF into w.
func (g *SheetGenerator) Write(w io.Writer, sheet RunSheet) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(sheet.Title, true)
	pdf.SetAuthor("goodsgo", false)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)

	font, tr := g.setupFont(pdf)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont(font, "", 14)
		pdf.CellFormat(0, 8, tr(sheet.Title), "", 1, "L", false, 0, "")
		pdf.SetFont(font, "", 9)
		meta := "出力日時: " + sheet.GeneratedAt.Format("2006/01/02 15:04")
		if len(sheet.Filters) > 0 {
			labels := make([]string, len(sheet.Filters))
			for i, f := range sheet.Filters {
				labels[i] = f.Label
			}
			meta += "  /  絞り込み: " + strings.Join(labels, ", ")
		}
		pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
		pdf.Ln(2)
		g.tableHeader(pdf, font, tr)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(font, "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(font, "", 9)
	if len(sheet.Tasks) == 0 {
		pdf.CellFormat(0, 8, tr("該当するタスクはありません"), "1", 1, "C", false, 0, "")
	}
	for i, task := range sheet.Tasks {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for _, col := range sheetColumns {
			text := fitText(pdf, tr(col.value(task)), col.width-2)
			pdf.CellFormat(col.width, 7, text, "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render run sheet: %w", err)
	}
	return pdf.Output(w)
}

func (g *SheetGenerator) tableHeader(pdf *gofpdf.Fpdf, font string, tr func(string) string) {
	pdf.SetFont(font, "", 9)
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range sheetColumns {
		pdf.CellFormat(col.width, 7, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

// setupFont registers the configured TTF and returns the font family with a
// text translator for it.
func (g *SheetGenerator) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if g.FontPath == "" {
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	return g.fontName, func(s string) string { return s }
}

// fitText cuts s to the first line that fits width.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if s == "" || pdf.GetStringWidth(s) <= width {
		return s
	}
	lines := pdf.SplitText(s, width)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
