package filterless

import (
	"log"
	"os"
	"strconv"
)

type traceLogger interface {
	Printf(string, ...any)
}
type nullTraceLogger struct{}

func (ntl nullTraceLogger) Printf(_ string, _ ...any) {}

var tracer traceLogger = nullTraceLogger{}

func init() {
	if v, err := strconv.ParseBool(os.Getenv("FILTERLESS_TRACE")); err == nil && v {
		tracer = log.New(os.Stderr, "filterless: ", log.LstdFlags)
		tracer.Printf("==== INITIALIZED tracer ====")
	}
}
