package render

import (
	"fmt"
	"io"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/xuri/excelize/v2"
)

const (
	BracketSheet = "Bracket"
	MatchesSheet = "Matches"
)

var matchesHeader = []interface{}{"Match", "Round", "Participant 1", "Participant 2", "Winner", "Status", "Next Match"}

type xlsxStyles struct {
	header int
	box    int
	winner int
	id     int
}

// WriteXLSX writes a workbook with the bracket drawn one column pair per round
// and a flat match table.
func WriteXLSX(w io.Writer, t *bracket.Tournament) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BracketSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(MatchesSheet); err != nil {
		return fmt.Errorf("create matches sheet: %w", err)
	}

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	if err := writeBracketSheet(f, t, styles); err != nil {
		return err
	}
	if err := writeMatchesSheet(f, t, styles); err != nil {
		return err
	}

	return f.Write(w)
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s xlsxStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.box, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return s, fmt.Errorf("box style: %w", err)
	}
	if s.winner, err = f.NewStyle(&excelize.Style{Border: border, Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("winner style: %w", err)
	}
	if s.id, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 8, Color: "808080"}}); err != nil {
		return s, fmt.Errorf("id style: %w", err)
	}
	return s, nil
}

// Top row of a match. Every round doubles the block height so a match sits
// level with the gap between its two feeders.
func matchRow(round, order int) int {
	block := 1 << (round + 1)
	offset := (1 << round) - 2
	return 2 + (order-1)*block + offset
}

func writeBracketSheet(f *excelize.File, t *bracket.Tournament, styles xlsxStyles) error {
	for r := 1; r <= t.Rounds; r++ {
		nameCol := 2*r - 1
		header, err := excelize.CoordinatesToCellName(nameCol, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(BracketSheet, header, bracket.RoundName(r, t.Rounds)); err != nil {
			return err
		}
		if err := f.SetCellStyle(BracketSheet, header, header, styles.header); err != nil {
			return err
		}

		colName, err := excelize.ColumnNumberToName(nameCol)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(BracketSheet, colName, colName, 26); err != nil {
			return err
		}

		for _, m := range t.Bracket.Round(r) {
			row := matchRow(m.Round, m.Order)
			for i, slot := range []bracket.Slot{bracket.Slot1, bracket.Slot2} {
				cell, err := excelize.CoordinatesToCellName(nameCol, row+i)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(BracketSheet, cell, slotLabel(m.Participant(slot))); err != nil {
					return err
				}
				style := styles.box
				if m.IsWinner(slot) {
					style = styles.winner
				}
				if err := f.SetCellStyle(BracketSheet, cell, cell, style); err != nil {
					return err
				}
			}

			idCell, err := excelize.CoordinatesToCellName(nameCol+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(BracketSheet, idCell, m.ID); err != nil {
				return err
			}
			if err := f.SetCellStyle(BracketSheet, idCell, idCell, styles.id); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMatchesSheet(f *excelize.File, t *bracket.Tournament, styles xlsxStyles) error {
	header := matchesHeader
	if err := f.SetSheetRow(MatchesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(MatchesSheet, "A1", "G1", styles.header); err != nil {
		return err
	}

	for i, m := range t.Bracket.Matches() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		winner := ""
		if p := m.WinnerParticipant(); p != nil {
			winner = p.String()
		}
		row := []interface{}{
			m.ID,
			m.Round,
			slotLabel(m.Participant1),
			slotLabel(m.Participant2),
			winner,
			string(m.Status),
			m.NextMatchID,
		}
		if err := f.SetSheetRow(MatchesSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(MatchesSheet, "C", "E", 26)
}

// TBD for a slot still waiting on an earlier match
func slotLabel(p *bracket.Participant) string {
	if p == nil {
		return "TBD"
	}
	return p.String()
}
