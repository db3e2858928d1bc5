package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/payments-engine/internal/codec"
	"github.com/rickgao/payments-engine/internal/model"
)

// WebSocketConfig configures a WebSocketSource.
type WebSocketConfig struct {
	URL              string
	APIKey           string        // sent as a bearer token when set
	HandshakeTimeout time.Duration // Default: 10s
	ReadTimeout      time.Duration // max idle time between frames, Default: 30s
}

// WebSocketSource reads a CSV document delivered as text frames. The first
// frame(s) carry the header; each frame holds one or more whole records. The
// stream ends when the server sends a normal close frame.
type WebSocketSource struct {
	cfg     WebSocketConfig
	logger  *slog.Logger
	decoder *codec.Decoder
}

// NewWebSocketSource creates a source for cfg.URL.
func NewWebSocketSource(cfg WebSocketConfig, logger *slog.Logger) *WebSocketSource {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	return &WebSocketSource{cfg: cfg, logger: logger}
}

// Stream implements Source.
func (s *WebSocketSource) Stream(ctx context.Context, emit func(model.Event) error) error {
	header := http.Header{}
	if s.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.URL, err)
	}
	defer conn.Close()

	s.logger.Info("websocket connected", "url", s.cfg.URL)

	// Unblock a pending read if the caller gives up.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	fr := &frameReader{conn: conn, readTimeout: s.cfg.ReadTimeout}
	s.decoder = codec.NewDecoder(fr, s.logger)

	err = streamDecoder(ctx, s.decoder, emit)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	// The peer's close frame is normally answered by the default close handler.
	err = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.logger.Debug("close frame not sent", "error", err)
	}
	s.logger.Info("websocket stream finished", "frames", fr.frames)
	return nil
}

// Skipped implements Source.
func (s *WebSocketSource) Skipped() int64 {
	if s.decoder == nil {
		return 0
	}
	return s.decoder.Skipped()
}

// frameReader concatenates text frames into one byte stream, terminating
// each frame with a newline. A normal close from the peer reads as io.EOF.
type frameReader struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	cur         io.Reader
	pendingNL   bool
	frames      int
}

func (f *frameReader) Read(p []byte) (int, error) {
	for {
		if f.cur != nil {
			n, err := f.cur.Read(p)
			if n > 0 {
				return n, nil
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return 0, err
			}
			f.cur = nil
			f.pendingNL = true
		}

		if f.pendingNL {
			if len(p) == 0 {
				return 0, nil
			}
			p[0] = '\n'
			f.pendingNL = false
			return 1, nil
		}

		if f.readTimeout > 0 {
			if err := f.conn.SetReadDeadline(time.Now().Add(f.readTimeout)); err != nil {
				return 0, fmt.Errorf("set read deadline: %w", err)
			}
		}
		typ, r, err := f.conn.NextReader()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("read frame: %w", err)
		}
		if typ != websocket.TextMessage {
			continue
		}
		f.frames++
		f.cur = r
	}
}
