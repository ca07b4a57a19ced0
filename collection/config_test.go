package collection

import (
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PARAMKIT_HELP_WIDTH", "100")
	t.Setenv("PARAMKIT_HELP_INDENT", "4")
	t.Setenv("PARAMKIT_SNAPSHOT_TTL", "1h")

	cfg := ConfigFromEnv()
	want := Config{HelpWidth: 100, HelpIndent: 4, SnapshotTTL: time.Hour}
	if cfg != want {
		t.Fatalf("ConfigFromEnv() = %+v, want %+v", cfg, want)
	}
}

func TestConfig_Normalized(t *testing.T) {
	cfg := Config{HelpWidth: -1, HelpIndent: -3, SnapshotTTL: -time.Second}.normalized()
	if cfg != DefaultConfig() {
		t.Fatalf("normalized() = %+v", cfg)
	}
	if got := New("x", WithConfig(Config{})).Config().HelpWidth; got != defaultHelpWidth {
		t.Fatalf("zero width should fall back to default, got %d", got)
	}
}
