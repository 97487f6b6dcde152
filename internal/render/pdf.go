package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/model"
)

const (
	bodyFontSize    = 11
	headingFontSize = 16
	smallFontSize   = 9
	lineHeight      = 5.5
	headingHeight   = 9
	margin          = 12
)

// PDF writes the print listing as an A4 document. A region that fits on one
// page is never split across pages.
func (p *Printer) PDF(w io.Writer, regions []*model.PrintRegion) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(p.title, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 2)
		pdf.SetFont("Arial", "", smallFontSize)
		pdf.CellFormat(0, 4, fmt.Sprintf("%s - %d", tr(p.title), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	width, pageHeight := pdf.GetPageSize()
	contentWidth := width - 2*margin
	usable := pageHeight - 2*margin

	for _, region := range regions {
		height := float64(headingHeight)
		for _, m := range region.Meetings {
			height += meetingHeight(pdf, m, contentWidth, tr)
		}
		if pdf.GetY()+height > pageHeight-margin && height <= usable {
			pdf.AddPage()
		}

		pdf.SetFont("Arial", "B", headingFontSize)
		pdf.CellFormat(0, headingHeight, tr(region.Name), "B", 1, "L", false, 0, "")

		for _, m := range region.Meetings {
			writeMeeting(pdf, m, contentWidth, tr)
		}
		pdf.Ln(lineHeight / 2)
	}

	if err := pdf.Error(); err != nil {
		return errors.Wrap(err, "failed to build pdf")
	}
	return errors.Wrap(pdf.Output(w), "failed to write pdf")
}

func meetingTitle(m *model.PrintMeeting) string {
	when := m.Time
	if m.EndTime != "" {
		when += " - " + m.EndTime
	}

	labels := append([]string{}, m.Flags...)
	if m.Online {
		labels = append(labels, "Online")
	}

	title := fmt.Sprintf("%s %s  %s", m.Day, when, m.Name)
	if len(labels) > 0 {
		title += " (" + strings.Join(labels, ", ") + ")"
	}
	return title
}

func meetingPlace(m *model.PrintMeeting) string {
	if m.Address == "" {
		return m.Location
	}
	return m.Location + ", " + m.Address
}

func meetingExtra(m *model.PrintMeeting) string {
	parts := make([]string, 0, 2)
	if len(m.Types) > 0 {
		parts = append(parts, strings.Join(m.Types, ", "))
	}
	if m.Notes != "" {
		parts = append(parts, m.Notes)
	}
	return strings.Join(parts, " - ")
}

func meetingHeight(pdf *fpdf.Fpdf, m *model.PrintMeeting, width float64, tr func(string) string) float64 {
	pdf.SetFont("Arial", "B", bodyFontSize)
	lines := len(pdf.SplitText(tr(meetingTitle(m)), width))
	pdf.SetFont("Arial", "", bodyFontSize)
	lines += len(pdf.SplitText(tr(meetingPlace(m)), width))

	height := float64(lines) * lineHeight
	if extra := meetingExtra(m); extra != "" {
		pdf.SetFont("Arial", "", smallFontSize)
		height += float64(len(pdf.SplitText(tr(extra), width))) * (lineHeight - 1)
	}
	return height + 1
}

func writeMeeting(pdf *fpdf.Fpdf, m *model.PrintMeeting, width float64, tr func(string) string) {
	pdf.SetFont("Arial", "B", bodyFontSize)
	pdf.MultiCell(width, lineHeight, tr(meetingTitle(m)), "", "L", false)

	pdf.SetFont("Arial", "", bodyFontSize)
	pdf.MultiCell(width, lineHeight, tr(meetingPlace(m)), "", "L", false)

	if extra := meetingExtra(m); extra != "" {
		pdf.SetFont("Arial", "", smallFontSize)
		pdf.MultiCell(width, lineHeight-1, tr(extra), "", "L", false)
	}
	pdf.Ln(1)
}
