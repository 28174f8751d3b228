package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", env, err)
			}
			if l == nil {
				t.Fatal("nil logger")
			}
		})
	}

	if _, err := NewLogger("staging"); err == nil {
		t.Error("unknown environment accepted")
	}
	if _, err := NewLogger("prod", "chatty"); err == nil {
		t.Error("invalid level override accepted")
	}
}

func TestFromContext(t *testing.T) {
	l := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("stored logger not returned")
	}

	if got := FromContext(context.Background()); got == nil {
		t.Error("bare context must yield a usable fallback logger")
	}
}
