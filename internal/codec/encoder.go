package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rickgao/payments-engine/internal/model"
)

// SnapshotHeader is the output header row.
var SnapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Encoder writes account snapshots as CSV.
type Encoder struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewEncoder wraps w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w)}
}

// Encode writes one snapshot, preceded by the header on first use.
func (e *Encoder) Encode(s model.Snapshot) error {
	if !e.wroteHeader {
		if err := e.w.Write(SnapshotHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		e.wroteHeader = true
	}

	row := []string{
		strconv.FormatUint(uint64(s.Client), 10),
		s.Available.String(),
		s.Held.String(),
		s.Total.String(),
		strconv.FormatBool(s.Locked),
	}
	if err := e.w.Write(row); err != nil {
		return fmt.Errorf("write account %d: %w", s.Client, err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer. An encoder that never
// encoded anything still emits the header.
func (e *Encoder) Flush() error {
	if !e.wroteHeader {
		if err := e.w.Write(SnapshotHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		e.wroteHeader = true
	}
	e.w.Flush()
	return e.w.Error()
}
