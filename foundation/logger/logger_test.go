package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/microchain/foundation/logger"
)

func Test_NewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")

	log, err := logger.NewWithFile("TEST", logger.FileConfig{Path: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %s", err)
	}

	log.Infow("startup", "status", "testing")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Should be able to read the log file: %s", err)
	}

	if !strings.Contains(string(data), `"service":"TEST"`) || !strings.Contains(string(data), `"status":"testing"`) {
		t.Logf("got: %s", data)
		t.Fatalf("Should write structured entries to the log file.")
	}
}
