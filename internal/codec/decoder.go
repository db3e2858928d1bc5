package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rickgao/payments-engine/internal/model"
	"github.com/rickgao/payments-engine/internal/money"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")

	// ErrBadRecord wraps per-row decode failures.
	ErrBadRecord = errors.New("bad record")
)

var requiredColumns = []string{"type", "client", "tx"}

// Decoder reads ledger events from CSV.
type Decoder struct {
	r       *csv.Reader
	logger  *slog.Logger
	columns map[string]int
	line    int
	skipped int64
}

// NewDecoder wraps r. The header is read lazily on the first Next call.
func NewDecoder(r io.Reader, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Decoder{r: cr, logger: logger}
}

// Next returns the next well-formed event. It returns io.EOF at the end of
// input. Malformed rows are logged and skipped.
func (d *Decoder) Next() (model.Event, error) {
	if d.columns == nil {
		if err := d.readHeader(); err != nil {
			return nil, err
		}
	}

	for {
		rec, err := d.r.Read()
		d.line++
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				d.skip(err)
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		e, err := d.decode(rec)
		if err != nil {
			d.skip(err)
			continue
		}
		return e, nil
	}
}

// Skipped returns the number of rows dropped as malformed.
func (d *Decoder) Skipped() int64 {
	return d.skipped
}

func (d *Decoder) skip(err error) {
	d.skipped++
	d.logger.Warn("skipping malformed record", "line", d.line, "error", err)
}

func (d *Decoder) readHeader() error {
	header, err := d.r.Read()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	d.line++

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	d.columns = cols
	return nil
}

func (d *Decoder) field(rec []string, name string) string {
	i, ok := d.columns[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (d *Decoder) decode(rec []string) (model.Event, error) {
	client, err := strconv.ParseUint(d.field(rec, "client"), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: client: %v", ErrBadRecord, err)
	}
	tx, err := strconv.ParseUint(d.field(rec, "tx"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: tx: %v", ErrBadRecord, err)
	}

	return DecodeEvent(d.field(rec, "type"), model.AccountID(client), model.TxID(tx), d.field(rec, "amount"))
}

// DecodeEvent builds an event from already split fields. A missing amount on
// a deposit or withdrawal means zero; an amount on any other kind is ignored.
// An unknown kind decodes as model.Unrecognized so the router's policy
// decides whether it is dropped or fails the run.
func DecodeEvent(kind string, client model.AccountID, tx model.TxID, amount string) (model.Event, error) {
	switch strings.ToLower(kind) {
	case "deposit":
		amt, err := optionalAmount(amount)
		if err != nil {
			return nil, err
		}
		return model.Deposit{Client: client, Tx: tx, Amount: amt}, nil
	case "withdrawal":
		amt, err := optionalAmount(amount)
		if err != nil {
			return nil, err
		}
		return model.Withdrawal{Client: client, Tx: tx, Amount: amt}, nil
	case "dispute":
		return model.Dispute{Client: client, Tx: tx}, nil
	case "resolve":
		return model.Resolve{Client: client, Tx: tx}, nil
	case "chargeback":
		return model.Chargeback{Client: client, Tx: tx}, nil
	default:
		return model.Unrecognized{Type: kind, Client: client, Tx: tx}, nil
	}
}

func optionalAmount(s string) (money.Amount, error) {
	if s == "" {
		return money.Zero, nil
	}
	amt, err := money.ParseAmount(s)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}
	return amt, nil
}
