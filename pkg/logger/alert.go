package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const keySendAlert = "send_alert"

// SendAlertField marks a log entry for forwarding to the alert chat.
func SendAlertField() zap.Field {
	return zap.Bool(keySendAlert, true)
}

// AlertSender delivers a rendered alert message.
type AlertSender interface {
	SendAlert(message string) error
}

type AlertCore struct {
	core     zapcore.Core
	sender   AlertSender
	minLevel zapcore.Level
	fields   []zapcore.Field
}

func NewAlertCore(core zapcore.Core, sender AlertSender, minLevel zapcore.Level) *AlertCore {
	return &AlertCore{core: core, sender: sender, minLevel: minLevel}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(a.fields)+len(fields))
	merged = append(merged, a.fields...)
	merged = append(merged, fields...)
	return &AlertCore{
		core:     a.core.With(fields),
		sender:   a.sender,
		minLevel: a.minLevel,
		fields:   merged,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, a.fields...), fields...)
	if entry.Level >= a.minLevel && shouldAlert(all) {
		msg := FormatAlert(entry, all)
		go func() {
			// alert delivery failures must not recurse into the logger
			_ = a.sender.SendAlert(msg)
		}()
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func shouldAlert(fields []zapcore.Field) bool {
	for _, f := range fields {
		if f.Key == keySendAlert && f.Type == zapcore.BoolType && f.Integer == 1 {
			return true
		}
	}
	return false
}

// FormatAlert renders the entry and its fields as a plain-text chat message.
func FormatAlert(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if f.Key == keySendAlert {
			continue
		}
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "🚨 %s Alert\n\nMessage: %s\n", entry.Level.CapitalString(), entry.Message)
	if len(keys) > 0 {
		b.WriteString("\nFields:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "• %s: %v\n", k, enc.Fields[k])
		}
	}
	fmt.Fprintf(&b, "\nTime: %s", entry.Time.UTC().Format("2006-01-02 15:04:05"))
	return b.String()
}
