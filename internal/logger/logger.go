package logger

import "github.com/rs/zerolog/log"

// Logger forwards log messages of third party libraries, e.g. retryablehttp, to the debug level of zerolog.
type Logger struct{}

func (*Logger) Printf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}
