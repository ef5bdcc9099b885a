package reporter

import (
	"runtime"
	"strconv"
	"strings"
)

// Internal lists the sqlshim packages that are never reported as the
// calling site of a statement.
var Internal = []string{
	"github.com/satishbabariya/sqlshim/runtime/",
	"github.com/satishbabariya/sqlshim/query/",
	"github.com/satishbabariya/sqlshim/backend.",
	"github.com/satishbabariya/sqlshim/dialect.",
}

// CallerOf returns "function (file:line)" for the first frame above it whose
// function does not start with one of skip. Runtime frames are always skipped.
func CallerOf(skip ...string) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !skipped(frame.Function, skip) {
			return frame.Function + " (" + frame.File + ":" + strconv.Itoa(frame.Line) + ")"
		}
		if !more {
			return ""
		}
	}
}

func skipped(fn string, skip []string) bool {
	if strings.HasPrefix(fn, "runtime.") {
		return true
	}
	for _, p := range skip {
		if strings.HasPrefix(fn, p) {
			return true
		}
	}
	return false
}
