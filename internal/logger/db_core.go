package logger

import (
	"go.uber.org/zap/zapcore"
)

// DBCore is a Zap Core that tees every entry to the async Mongo writer
type DBCore struct {
	zapcore.Core
	writer *DBLogWriter
	fields []zapcore.Field
}

// NewDBCore wraps an existing core (like console logger) and adds DB logging
func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps fields attached through logger.With so tenant_id/user_id survive
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &DBCore{
		Core:   c.Core.With(fields),
		writer: c.writer,
		fields: merged,
	}
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.writer.AddLog(buildEntry(entry, append(c.fields[:len(c.fields):len(c.fields)], fields...)))

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func buildEntry(entry zapcore.Entry, fields []zapcore.Field) LogEntry {
	out := LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		// Function name needs AddCaller on the logger
		Caller: entry.Caller.Function,
	}
	for _, f := range fields {
		if f.Type != zapcore.StringType {
			continue
		}
		switch f.Key {
		case "ip":
			out.IpAddress = f.String
		case "tenant_id":
			out.TenantID = f.String
		case "user_id":
			out.UserID = f.String
		}
	}
	return out
}
