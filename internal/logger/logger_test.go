package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

// SetupがJSON形式でログを出力することを検証
func TestSetup_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, slog.LevelInfo)

	log.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("出力がJSONではない: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

// レベル未満のログが抑制されることを検証
func TestSetup_SuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, slog.LevelWarn)

	log.Info("should be suppressed")

	if buf.Len() != 0 {
		t.Errorf("Warnレベル設定でInfoが出力された: %s", buf.String())
	}
}

// LOG_LEVEL環境変数からのレベル解決を検証
func TestLevelFromEnv(t *testing.T) {
	cases := []struct {
		env  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tc := range cases {
		t.Setenv("LOG_LEVEL", tc.env)
		if got := levelFromEnv(); got != tc.want {
			t.Errorf("LOG_LEVEL=%q: got %v, want %v", tc.env, got, tc.want)
		}
	}
}
