package logger

import (
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// ZerologAdapter writes component-scoped events through zerolog. Fields are
// emitted in key order so repeated runs produce comparable lines.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog logs JSON lines to writer, or human-readable lines when json
// is false. Colour is only used when writing straight to a terminal stream.
func NewZerolog(writer io.Writer, level zerolog.Level, json bool) *ZerologAdapter {
	if writer == nil {
		writer = os.Stdout
	}
	if !json {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: consoleTimeFormat,
			NoColor:    writer != io.Writer(os.Stdout) && writer != io.Writer(os.Stderr),
		}
	}

	return &ZerologAdapter{
		logger: zerolog.New(writer).Level(level).With().Timestamp().Logger(),
	}
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	emit(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	emit(z.logger.Error().Err(err), component, fields).Msg(component + " failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	emit(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	emit(z.logger.Debug(), component, fields).Msg(message)
}

// emit is a no-op on events below the configured level.
func emit(event *zerolog.Event, component string, fields map[string]interface{}) *zerolog.Event {
	if !event.Enabled() {
		return event
	}
	event = event.Str("component", component)
	if len(fields) == 0 {
		return event
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		event = event.Interface(k, fields[k])
	}
	return event
}
