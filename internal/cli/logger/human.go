package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const humanTimeLayout = "2006/01/02 15:04:05"

var humanBufPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 1024)) },
}

// HumanHandler writes records as
//
//	[date time ]LEVEL message key=value...
//
// The key=value tail is produced by a nested slog.TextHandler, so attributes
// and groups are quoted the same way the text format does.
func NewHumanHandler(w io.Writer, opts *slog.HandlerOptions, logTime bool,
) *HumanHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	self := &HumanHandler{
		w:        w,
		logTime:  logTime,
		replacer: opts.ReplaceAttr,
		mu:       new(sync.Mutex),
		tail:     new(tailWriter),
	}

	textOpts := *opts
	textOpts.ReplaceAttr = self.replaceAttr
	self.h = slog.NewTextHandler(self.tail, &textOpts)
	return self
}

type HumanHandler struct {
	w        io.Writer
	logTime  bool
	replacer func(groups []string, a slog.Attr) slog.Attr

	h    slog.Handler
	tail *tailWriter
	mu   *sync.Mutex
}

var _ slog.Handler = (*HumanHandler)(nil)

// tailWriter redirects output of the nested text handler into the buffer of
// the record being handled.
type tailWriter struct {
	b *bytes.Buffer
}

func (self *tailWriter) Write(p []byte) (int, error) { return self.b.Write(p) }

func (self *HumanHandler) replaceAttr(groups []string, a slog.Attr,
) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey, slog.LevelKey, slog.MessageKey:
			return slog.Attr{}
		}
	}
	if self.replacer != nil {
		return self.replacer(groups, a)
	}
	return a
}

func (self *HumanHandler) Enabled(ctx context.Context, level slog.Level,
) bool {
	return self.h.Enabled(ctx, level)
}

func (self *HumanHandler) Handle(ctx context.Context, r slog.Record) error {
	b := humanBufPool.Get().(*bytes.Buffer)
	defer func() {
		if b.Cap() <= 16<<10 {
			b.Reset()
			humanBufPool.Put(b)
		}
	}()

	if self.logTime && !r.Time.IsZero() {
		b.WriteString(r.Time.Format(humanTimeLayout))
		b.WriteByte(' ')
	}
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteByte(' ')

	self.mu.Lock()
	defer self.mu.Unlock()

	self.tail.b = b
	err := self.h.Handle(ctx, r)
	self.tail.b = nil
	if err != nil {
		return fmt.Errorf("logger: failed slog handler: %w", err)
	}

	line := bytes.TrimRight(b.Bytes(), " \n")
	b.Truncate(len(line))
	b.WriteByte('\n')
	if _, err := b.WriteTo(self.w); err != nil {
		return fmt.Errorf("logger: failed write formatted entry: %w", err)
	}
	return nil
}

func (self *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h := *self
	h.h = self.h.WithAttrs(attrs)
	return &h
}

func (self *HumanHandler) WithGroup(name string) slog.Handler {
	h := *self
	h.h = self.h.WithGroup(name)
	return &h
}
