// Package source reads ledger events from an input and hands them, in
// order, to a callback.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rickgao/payments-engine/internal/codec"
	"github.com/rickgao/payments-engine/internal/model"
)

// Source produces a finite, ordered stream of events.
type Source interface {
	// Stream calls emit for every event in input order. It returns nil once
	// the input is exhausted, or the first error from emit or the input.
	Stream(ctx context.Context, emit func(model.Event) error) error

	// Skipped returns the number of malformed records dropped so far.
	Skipped() int64
}

// streamDecoder drains dec into emit, checking ctx between records.
func streamDecoder(ctx context.Context, dec *codec.Decoder, emit func(model.Event) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := emit(e); err != nil {
			return err
		}
	}
}

// FileSource reads a CSV file.
type FileSource struct {
	path    string
	logger  *slog.Logger
	decoder *codec.Decoder
}

// NewFileSource creates a source for the CSV file at path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, logger: logger}
}

// Stream implements Source.
func (s *FileSource) Stream(ctx context.Context, emit func(model.Event) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	s.logger.Info("reading input file", "path", s.path)
	s.decoder = codec.NewDecoder(f, s.logger)
	return streamDecoder(ctx, s.decoder, emit)
}

// Skipped implements Source.
func (s *FileSource) Skipped() int64 {
	if s.decoder == nil {
		return 0
	}
	return s.decoder.Skipped()
}
