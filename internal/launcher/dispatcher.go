package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/record"
)

// Dispatcher turns a committed record into a clipboard write or a link open.
type Dispatcher struct {
	clipboard platform.Clipboard
	opener    platform.Opener
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil logger logs to slog.Default.
func NewDispatcher(clip platform.Clipboard, opener platform.Opener, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{clipboard: clip, opener: opener, logger: logger}
}

// CopyDefaultField copies the value of rec's default field. A missing or empty
// value is not an error: nothing is copied and copied is false.
func (d *Dispatcher) CopyDefaultField(rec record.Record) (bool, error) {
	value, ok := rec.DefaultValue()
	if !ok {
		d.logger.Debug("no default field to copy", "id", rec.ID, "default_field", rec.DefaultField)
		return false, nil
	}
	return d.write(rec, rec.DefaultField, value)
}

// CopyField copies the value under key.
func (d *Dispatcher) CopyField(rec record.Record, key string) (bool, error) {
	value, ok := rec.Fields.Get(key)
	if !ok || value == "" {
		d.logger.Debug("no field to copy", "id", rec.ID, "key", key)
		return false, nil
	}
	return d.write(rec, key, value)
}

// OpenFileLink opens rec's file link. An empty link is a no-op.
func (d *Dispatcher) OpenFileLink(ctx context.Context, rec record.Record) (bool, error) {
	link := strings.TrimSpace(rec.FileLink)
	if link == "" {
		d.logger.Debug("record has no file link", "id", rec.ID)
		return false, nil
	}
	if d.opener == nil {
		return false, fmt.Errorf("open link: no opener configured")
	}
	if err := d.opener.Open(ctx, link); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) write(rec record.Record, key, value string) (bool, error) {
	if d.clipboard == nil {
		return false, fmt.Errorf("copy %s: no clipboard configured", key)
	}
	if err := d.clipboard.WriteText(value); err != nil {
		d.logger.Warn("clipboard write failed", "id", rec.ID, "key", key, "err", err)
		return false, err
	}
	d.logger.Debug("copied field", "id", rec.ID, "key", key)
	return true, nil
}
