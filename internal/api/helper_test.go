package api

import (
	"io"

	"github.com/rs/zerolog"
)

func newTraceLogger(w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	return zerolog.New(w).Level(zerolog.TraceLevel)
}
