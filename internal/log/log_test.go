package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.With("call_id", "abc").Info("invoke", "method", "user.query")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "invoke" || rec["call_id"] != "abc" || rec["method"] != "user.query" {
		t.Errorf("record = %v", rec)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should stay nil")
	}
	if l.Enabled(slog.LevelError) {
		t.Error("nil logger should not be enabled")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestNewWritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New("debug", dir)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	l.Debug("hello")
	if err := l.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if l.LogFile != filepath.Join(dir, "rpcsh.log") {
		t.Errorf("LogFile = %q", l.LogFile)
	}
	data, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"msg":"hello"`)) {
		t.Errorf("log file = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(slog.LevelError) {
		t.Error("Discard should drop errors too")
	}
}
