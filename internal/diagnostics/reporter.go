package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

// Reporter receives every error the core raises. Reporting never changes control flow.
type Reporter interface {
	Report(ctx context.Context, err error, kv ...any)
}

// severity is implemented by errors that know how loud they are
type severity interface {
	Severity() string
}

// LogReporter writes reports through the standard logger with a level prefix
type LogReporter struct {
	logger *log.Logger
	debug  bool
}

// NewLogReporter creates a reporter writing to stderr. level "debug" also
// prints request ids and other key/value context for warnings.
func NewLogReporter(level string) *LogReporter {
	return &LogReporter{
		logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
		debug:  strings.EqualFold(level, "debug"),
	}
}

func (r *LogReporter) Report(_ context.Context, err error, kv ...any) {
	if err == nil {
		return
	}
	level := "ERROR"
	var s severity
	if errors.As(err, &s) {
		level = strings.ToUpper(s.Severity())
	}
	line := fmt.Sprintf("[%s] %v", level, err)
	if level == "ERROR" || r.debug {
		line += formatKVs(kv)
	}
	r.logger.Println(line)
}

func formatKVs(kv []any) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, " %s=%v", key, kv[i+1])
	}
	return b.String()
}

// Nop discards reports
type Nop struct{}

func (Nop) Report(context.Context, error, ...any) {}
