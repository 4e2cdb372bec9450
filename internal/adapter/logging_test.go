package adapter

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "backlog.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "entryID", "7")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("hidden")) {
		t.Error("Expected info record filtered at warn level")
	}
	if !bytes.Contains(data, []byte(`"msg":"shown"`)) || !bytes.Contains(data, []byte(`"entryID":"7"`)) {
		t.Errorf("Expected JSON warn record, got %s", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("debug") != slog.LevelDebug || parseLogLevel("WARNING") != slog.LevelWarn || parseLogLevel("bogus") != slog.LevelInfo {
		t.Error("Unexpected level mapping")
	}
}
