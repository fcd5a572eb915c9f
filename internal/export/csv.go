// Package export renders filtered transactions as a delimited-text artifact.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
)

// FileName is the name offered when the export is downloaded.
const FileName = "fintrack_transacoes.csv"

// ContentType of the CSV artifact.
const ContentType = "text/csv; charset=utf-8"

// Header is the first row of every export.
var Header = []string{"Tipo", "Descrição", "Valor", "Categoria", "Data"}

// WriteCSV writes the header followed by rows. Fields containing commas,
// quotes or line breaks are quoted.
func WriteCSV(w io.Writer, rows iter.Seq[[]string]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	n := 0
	for row := range rows {
		if err := cw.Write(row); err != nil {
			return n, fmt.Errorf("write row %d: %w", n+1, err)
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flush csv: %w", err)
	}
	return n, nil
}
