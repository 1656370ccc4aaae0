package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV renders t as UTF-8 CSV. Every field is wrapped in double quotes with embedded
// quotes doubled, and records end with "\n".
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeRecord(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// QuoteField applies the export escaping to one value.
func QuoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(QuoteField(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
