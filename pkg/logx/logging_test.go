package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	kit "chatkit/internal/transport"
)

func TestWriterLoggerFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWriter(&buf, "debug").With(String("comp", "test"))
	log.Info("hello", Int("n", 3), Err(errors.New("boom")), Err(nil))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if m["message"] != "hello" || m["comp"] != "test" || m["n"] != float64(3) || m["err"] != "boom" {
		t.Fatalf("unexpected event: %v", m)
	}
	if c, _ := m["caller"].(string); !strings.HasPrefix(c, "logging_test.go:") {
		t.Fatalf("caller = %q", c)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	if !log.Enabled(LevelError) || log.Enabled(LevelDebug) {
		t.Fatal("Enabled mismatch")
	}
}

func TestZeroLoggerIsNoop(t *testing.T) {
	t.Parallel()
	var l Logger
	if !l.IsZero() {
		t.Fatal("zero logger should report IsZero")
	}
	l.Error("nothing happens")
}

type captureSender struct {
	mu   sync.Mutex
	msgs []string
	to   []kit.ChatTarget
	got  chan struct{}
}

func (c *captureSender) SendText(_ context.Context, to kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
	c.mu.Lock()
	c.msgs = append(c.msgs, text)
	c.to = append(c.to, to)
	c.mu.Unlock()
	select {
	case c.got <- struct{}{}:
	default:
	}
	return kit.MessageRef{ChatID: to.ChatID}, nil
}

func TestTelegramSink(t *testing.T) {
	t.Parallel()
	sender := &captureSender{got: make(chan struct{}, 1)}
	svc, log := New(Config{
		Level: "debug",
		Telegram: TelegramConfig{
			Enabled:    true,
			ChatID:     -100,
			ThreadID:   7,
			MinLevel:   "warn",
			RatePerSec: 5,
		},
	})
	defer svc.Close()
	svc.SetSender(sender)

	log.Info("quiet")
	log.Warn("loud", String("k", "v"))

	select {
	case <-sender.got:
	case <-time.After(2 * time.Second):
		t.Fatal("telegram sink did not deliver")
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.msgs) != 1 {
		t.Fatalf("msgs = %q, want exactly the warning", sender.msgs)
	}
	if !strings.HasPrefix(sender.msgs[0], "[WARN] loud") || !strings.Contains(sender.msgs[0], "- k=v") {
		t.Fatalf("msg = %q", sender.msgs[0])
	}
	if sender.to[0] != (kit.ChatTarget{ChatID: -100, ThreadID: 7}) {
		t.Fatalf("target = %+v", sender.to[0])
	}
}
