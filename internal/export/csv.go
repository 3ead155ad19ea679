// Package export writes screening reports in downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

// listSeparator joins skill lists inside a single CSV cell.
const listSeparator = "; "

// Header is the first row of every CSV export.
var Header = []string{"Filename", "Domain", "Score", "Matched Skills", "Missing Skills"}

// WriteCSV writes one row per report, in input order, after the header.
func WriteCSV(w io.Writer, reports []types.AnalysisReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range reports {
		row := []string{
			r.Filename,
			r.Domain,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			strings.Join(r.Matched, listSeparator),
			strings.Join(r.Missing, listSeparator),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.Filename, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
