package report

import (
	"errors"
	"fmt"

	"github.com/mayurbaviskarpune/stock/types"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrNoSummaries = errors.New("no symbols processed")

const (
	backtestSheet = "Backtest"
	summarySheet  = "Summary"

	greenFill = "99FF99"
	redFill   = "FF9999"
)

var backtestHeader = []any{"Date", "Trend", "Entry", "Exit", "Quantity", "PnL", "Capital"}

var summaryHeader = []any{
	"Ticker", "Total Trades", "Upside Follow", "Downside Follow",
	"Upside Fake", "Downside Fake", "Win Rate %", "Final Capital", "Profit",
}

func fillStyles(f *excelize.File) (green, red int, err error) {
	green, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{greenFill}, Pattern: 1},
	})
	if err != nil {
		return 0, 0, err
	}
	red, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{redFill}, Pattern: 1},
	})
	if err != nil {
		return 0, 0, err
	}
	return green, red, nil
}

// WriteBacktestWorkbook writes one symbol's trade log to an xlsx workbook.
// The PnL cell is green when the day made money, red otherwise; the Capital
// cell is green when the balance grew versus the previous row (the initial
// capital for the first row), red otherwise.
func WriteBacktestWorkbook(path string, trades []types.Trade, initialCapital decimal.Decimal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", backtestSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(backtestSheet, "A1", &backtestHeader); err != nil {
		return err
	}
	green, red, err := fillStyles(f)
	if err != nil {
		return err
	}

	prevCapital := initialCapital
	for i, t := range trades {
		row := i + 2

		var entry any
		if t.Entry != nil {
			entry = t.Entry.InexactFloat64()
		}
		values := []any{
			t.Date.Format("2006-01-02"),
			string(t.Trend),
			entry,
			t.Exit.InexactFloat64(),
			t.Quantity,
			t.PnL.InexactFloat64(),
			t.Capital.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(backtestSheet, cell, &values); err != nil {
			return err
		}

		pnlStyle := red
		if t.PnL.IsPositive() {
			pnlStyle = green
		}
		if err := setCellFill(f, backtestSheet, 6, row, pnlStyle); err != nil {
			return err
		}

		capStyle := red
		if t.Capital.GreaterThan(prevCapital) {
			capStyle = green
		}
		if err := setCellFill(f, backtestSheet, 7, row, capStyle); err != nil {
			return err
		}
		prevCapital = t.Capital
	}

	return f.SaveAs(path)
}

// WriteMasterSummary writes the cross-symbol summary workbook: one row per
// symbol, the win-rate cell colored green above 60% and red below 40%, and
// best/worst performer annotation rows appended after a blank row.
func WriteMasterSummary(path string, summaries []types.SymbolSummary) error {
	if len(summaries) == 0 {
		return ErrNoSummaries
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	green, red, err := fillStyles(f)
	if err != nil {
		return err
	}

	for i, s := range summaries {
		row := i + 2
		values := []any{
			s.Ticker,
			s.TotalTrades,
			s.UpsideFollow,
			s.DownsideFollow,
			s.UpsideFake,
			s.DownsideFake,
			s.WinRate.InexactFloat64(),
			s.FinalCapital.Round(2).InexactFloat64(),
			s.Profit.Round(2).InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}

		switch {
		case s.WinRate.GreaterThan(decimal.NewFromInt(60)):
			err = setCellFill(f, summarySheet, 7, row, green)
		case s.WinRate.LessThan(decimal.NewFromInt(40)):
			err = setCellFill(f, summarySheet, 7, row, red)
		}
		if err != nil {
			return err
		}
	}

	best, worst := BestWorst(summaries)
	annotations := [][]any{
		{
			"Best Performer",
			best.Ticker,
			fmt.Sprintf("Capital: %s", best.FinalCapital.Round(2)),
			fmt.Sprintf("Profit: %s", best.Profit.Round(2)),
			fmt.Sprintf("Win Rate: %s%%", best.WinRate),
		},
		{
			"Worst Performer",
			worst.Ticker,
			fmt.Sprintf("Capital: %s", worst.FinalCapital.Round(2)),
			fmt.Sprintf("Profit: %s", worst.Profit.Round(2)),
			fmt.Sprintf("Win Rate: %s%%", worst.WinRate),
		},
	}
	// One blank row between the table and the annotations.
	row := len(summaries) + 3
	for _, values := range annotations {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	return f.SaveAs(path)
}

// BestWorst selects the best and worst performer by final capital.
// Summaries must be non-empty.
func BestWorst(summaries []types.SymbolSummary) (best, worst types.SymbolSummary) {
	best, worst = summaries[0], summaries[0]
	for _, s := range summaries[1:] {
		if s.FinalCapital.GreaterThan(best.FinalCapital) {
			best = s
		}
		if s.FinalCapital.LessThan(worst.FinalCapital) {
			worst = s
		}
	}
	return best, worst
}

func setCellFill(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}
