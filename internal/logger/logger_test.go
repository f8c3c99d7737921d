package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s failed: %v", path, err)
	}
	return string(content)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{MaxBackups: 3}.withDefaults()
	if opts.Dir != "logs" || opts.Filename != "storefront.log" {
		t.Fatalf("unexpected default location: %s/%s", opts.Dir, opts.Filename)
	}
	if opts.MaxSizeMB != 100 || opts.MaxBackups != 3 || opts.MaxAgeDays != 30 {
		t.Fatalf("unexpected rotation defaults: %+v", opts)
	}
}

func TestReleaseWritesJSONEventsToFile(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "release.log"})
	log.Info("order_placed")
	_ = log.Sync()

	content := readLog(t, filepath.Join(dir, "release.log"))
	if !strings.Contains(content, `"event":"order_placed"`) || !strings.Contains(content, `"level":"info"`) {
		t.Fatalf("expected JSON event line, got=%s", content)
	}
}

func TestReleaseCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "var", "log")
	log := New("release", Options{Dir: dir})
	log.Warn("cache_unavailable")
	_ = log.Sync()

	if !strings.Contains(readLog(t, filepath.Join(dir, "storefront.log")), "cache_unavailable") {
		t.Fatalf("expected entry in default file name")
	}
}

func TestDebugDoesNotWriteFile(t *testing.T) {
	dir := t.TempDir()
	log := New("debug", Options{Dir: dir, Filename: "debug.log"})
	log.Info("debug_only")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(dir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestReleaseHonorsConfiguredLevel(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "level.log", Level: "warn"})
	log.Info("should_be_dropped")
	log.Warn("should_be_kept")
	_ = log.Sync()

	content := readLog(t, filepath.Join(dir, "level.log"))
	if strings.Contains(content, "should_be_dropped") {
		t.Fatalf("info entry should be filtered at warn level")
	}
	if !strings.Contains(content, "should_be_kept") {
		t.Fatalf("warn entry should be written, got=%s", content)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw   string
		debug bool
		want  zapcore.Level
	}{
		{raw: "loud", debug: true, want: zapcore.DebugLevel},
		{raw: "", debug: false, want: zapcore.InfoLevel},
		{raw: " error ", debug: true, want: zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.raw, tc.debug); got != tc.want {
			t.Fatalf("parseLevel(%q, %v) = %s, want %s", tc.raw, tc.debug, got, tc.want)
		}
	}
}

func TestInitReplacesCurrentLogger(t *testing.T) {
	before := Z()
	t.Cleanup(func() { current.Store(before) })

	l := Init("release", Options{Dir: t.TempDir()})
	if Z() != l || S() == nil {
		t.Fatalf("Init should install the new logger")
	}
}
