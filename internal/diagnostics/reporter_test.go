package diagnostics

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

type warnErr struct{}

func (warnErr) Error() string    { return "title is required" }
func (warnErr) Severity() string { return "warn" }

func newBufferedReporter(level string) (*LogReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewLogReporter(level)
	r.logger = log.New(&buf, "", 0)
	return r, &buf
}

func TestReportUsesSeverity(t *testing.T) {
	r, buf := newBufferedReporter("info")

	r.Report(context.Background(), warnErr{}, "field", "title")
	if got := buf.String(); !strings.HasPrefix(got, "[WARN] title is required") || strings.Contains(got, "field=") {
		t.Errorf("unexpected warn line %q", got)
	}

	buf.Reset()
	r.Report(context.Background(), errors.New("connection refused"), "op", "insert")
	if got := buf.String(); !strings.Contains(got, "[ERROR] connection refused op=insert") {
		t.Errorf("unexpected error line %q", got)
	}
}

func TestReportDebugIncludesContext(t *testing.T) {
	r, buf := newBufferedReporter("DEBUG")
	r.Report(context.Background(), warnErr{}, "field", "title", "dangling")
	if got := buf.String(); !strings.Contains(got, "field=title") || strings.Contains(got, "dangling") {
		t.Errorf("unexpected debug line %q", got)
	}
}

func TestReportNilIgnored(t *testing.T) {
	r, buf := newBufferedReporter("debug")
	r.Report(context.Background(), nil)
	if buf.Len() != 0 {
		t.Errorf("nil error should not be logged, got %q", buf.String())
	}
}
