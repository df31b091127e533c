package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":    slog.LevelError,
		" WARN ":   slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"info":     slog.LevelInfo,
		"debug":    slog.LevelDebug,
		"whatever": slog.LevelDebug,
	}
	for input, want := range cases {
		if got := levelFromString(input); got != want {
			t.Fatalf("levelFromString(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewWriterFiltersAndTags(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Component(NewWriter(&buf, "warn"), "ingest")

	logger.Info("hidden")
	logger.Warn("shown", "blog", "b-1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	for _, want := range []string{"shown", "component=ingest", "service=seoforge", "blog=b-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestComponentNil(t *testing.T) {
	t.Parallel()

	if Component(nil, "x") != nil {
		t.Fatalf("expected nil logger passthrough")
	}
}
