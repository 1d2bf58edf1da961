package slogobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// NewHandler returns a slog.Handler rendering records in format. Text and JSON
// delegate to the standard handlers; compact is rendered here.
func NewHandler(format Format, level slog.Leveler, output io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: renameTraceLevel}
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(output, opts)
	case FormatText:
		return slog.NewTextHandler(output, opts)
	default:
		return &compactHandler{level: level, output: output, mu: &sync.Mutex{}}
	}
}

func renameTraceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelName(level))
		}
	}
	return a
}

type compactHandler struct {
	level  slog.Leveler
	output io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

func (h *compactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *compactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')
	buf = append(buf, levelName(r.Level)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.prefix+a.Key] = a.Value.Any()
		return true
	})
	if len(fields) > 0 {
		encoded, err := json.Marshal(fields)
		if err != nil {
			encoded = []byte(`{"error":"unencodable attributes"}`)
		}
		buf = append(buf, ' ')
		buf = append(buf, encoded...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

func (h *compactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *compactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}
