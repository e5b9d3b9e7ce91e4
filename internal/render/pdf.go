package render

import (
	"fmt"
	"io"
	"math"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// MaxPDFParticipants bounds the single page bracket. At this size the page is
// about 2.1 m tall.
const MaxPDFParticipants = 256

// Bracket sheet geometry, in millimetres
const (
	pdfMargin     = 10.0
	pdfTop        = 28.0
	pdfMatchPitch = 16.0
	pdfBoxWidth   = 50.0
	pdfBoxHeight  = 12.0
	pdfColumnGap  = 14.0
)

// Embedded TrueType family with Latin, Greek and Cyrillic coverage
const pdfFont = "Go"

// WritePDF draws the whole bracket on a single landscape page. The page grows
// past A4 when the bracket does not fit. An empty title uses the tournament
// name.
func WritePDF(w io.Writer, t *bracket.Tournament, title string) error {
	pdf, err := newBracketPDF(t, title)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func newBracketPDF(t *bracket.Tournament, title string) (*fpdf.Fpdf, error) {
	if len(t.Participants) > MaxPDFParticipants {
		return nil, bracket.InvalidInput("pdf output supports at most %d participants, got %d", MaxPDFParticipants, len(t.Participants))
	}
	if title == "" {
		title = t.Name
	}

	firstRound := t.BracketSize() / 2
	width := math.Max(297, 2*pdfMargin+float64(t.Rounds)*(pdfBoxWidth+pdfColumnGap))
	height := math.Max(210, pdfTop+float64(firstRound)*pdfMatchPitch+pdfMargin)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.SetXY(pdfMargin, pdfMargin)
	pdf.CellFormat(width-2*pdfMargin, 8, title, "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 9)
	pdf.CellFormat(width-2*pdfMargin, 5, fmt.Sprintf("%d participants, %d rounds, %d byes",
		len(t.Participants), t.Rounds, t.Byes()), "", 1, "C", false, 0, "")

	for r := 1; r <= t.Rounds; r++ {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.SetXY(columnX(r), pdfTop-8)
		pdf.CellFormat(pdfBoxWidth, 5, bracket.RoundName(r, t.Rounds), "", 0, "C", false, 0, "")

		for _, m := range t.Bracket.Round(r) {
			drawPDFMatch(pdf, m)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("draw bracket: %w", err)
	}
	return pdf, nil
}

func columnX(round int) float64 {
	return pdfMargin + float64(round-1)*(pdfBoxWidth+pdfColumnGap)
}

// Vertical centre of a match box
func centerY(round, order int) float64 {
	span := pdfMatchPitch * float64(int(1)<<(round-1))
	return pdfTop + span*(float64(order)-0.5)
}

func drawPDFMatch(pdf *fpdf.Fpdf, m bracket.Match) {
	x := columnX(m.Round)
	cy := centerY(m.Round, m.Order)
	top := cy - pdfBoxHeight/2
	half := pdfBoxHeight / 2

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, top, pdfBoxWidth, pdfBoxHeight, "D")
	pdf.Line(x, cy, x+pdfBoxWidth, cy)

	for i, slot := range []bracket.Slot{bracket.Slot1, bracket.Slot2} {
		p := m.Participant(slot)
		style := ""
		switch {
		case m.IsWinner(slot):
			style = "B"
			pdf.SetTextColor(0, 0, 0)
		case p == nil || p.IsBye():
			pdf.SetTextColor(140, 140, 140)
		default:
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.SetFont(pdfFont, style, 9)
		pdf.SetXY(x+1.5, top+float64(i)*half)
		pdf.CellFormat(pdfBoxWidth-3, half, slotLabel(p), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(110, 110, 110)
	pdf.SetFont(pdfFont, "", 6)
	pdf.Text(x, top-0.8, m.ID)
	pdf.SetTextColor(0, 0, 0)

	if m.NextMatchID == "" {
		return
	}

	// Elbow connector into the successor box
	nextY := centerY(m.Round+1, (m.Order+1)/2)
	right := x + pdfBoxWidth
	mid := right + pdfColumnGap/2
	pdf.SetLineWidth(0.2)
	pdf.Line(right, cy, mid, cy)
	pdf.Line(mid, cy, mid, nextY)
	pdf.Line(mid, nextY, right+pdfColumnGap, nextY)
}
