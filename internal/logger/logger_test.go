package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureGlobal points the global logger at a buffer for the test.
func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestMatchIDContext(t *testing.T) {
	ctx := context.Background()
	if id := MatchIDFromContext(ctx); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	ctx = WithMatchID(ctx, "m-42")
	if id := MatchIDFromContext(ctx); id != "m-42" {
		t.Errorf("got %q", id)
	}
}

func TestForMatchAddsField(t *testing.T) {
	buf := captureGlobal(t)

	l := ForMatch(WithMatchID(context.Background(), "m-7"))
	l.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["matchId"] != "m-7" {
		t.Errorf("matchId = %v", entry["matchId"])
	}

	buf.Reset()
	pl := ForMatch(context.Background())
	pl.Info().Msg("plain")
	if strings.Contains(buf.String(), "matchId") {
		t.Errorf("unexpected matchId in %q", buf.String())
	}
}

func TestLogSnapshotTruncates(t *testing.T) {
	buf := captureGlobal(t)

	LogSnapshot(log.Logger, "board", strings.Repeat("O", 1500))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if s, _ := entry["board"].(string); len(s) != 1000 {
		t.Errorf("expected 1000 chars, got %d", len(s))
	}
	if entry["truncated"] != true {
		t.Error("expected truncated flag")
	}

	buf.Reset()
	LogSnapshot(log.Logger, "board", "")
	if buf.Len() != 0 {
		t.Errorf("empty snapshot should not log, got %q", buf.String())
	}
}

func TestInitRespectsLevel(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", "")
	Init()
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %s", zerolog.GlobalLevel())
	}

	t.Setenv("LOG_LEVEL", "nonsense")
	Init()
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("bad LOG_LEVEL should fall back to info, got %s", zerolog.GlobalLevel())
	}
}
