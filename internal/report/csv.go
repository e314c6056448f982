package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mayurbaviskarpune/stock/types"
)

// WriteTradesCSVFile writes a symbol's trade log to a CSV file at the given path.
func WriteTradesCSVFile(path string, trades []types.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return writeTradesCSV(f, trades)
}

// writeTradesCSV writes the trade log to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func writeTradesCSV(w io.Writer, trades []types.Trade) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"Date",
		"Trend",
		"Entry",
		"Exit",
		"Quantity",
		"PnL",
		"Capital",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range trades {
		entry := ""
		if t.Entry != nil {
			entry = t.Entry.String()
		}
		record := []string{
			t.Date.Format("2006-01-02"),
			string(t.Trend),
			entry,
			t.Exit.String(),
			strconv.FormatInt(t.Quantity, 10),
			t.PnL.String(),
			t.Capital.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	// Check for any error from the csv.Writer
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}
