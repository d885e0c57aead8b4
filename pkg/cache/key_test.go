package cache

import (
	"testing"

	"github.com/embedchat-ai/embedchat/pkg/models"
)

func turns(pairs ...string) []models.ChatMessage {
	msgs := make([]models.ChatMessage, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		msgs = append(msgs, models.ChatMessage{Role: pairs[i], Content: pairs[i+1]})
	}
	return msgs
}

func TestDeriveKeyStable(t *testing.T) {
	seq := turns("user", "hi", "assistant", "hello", "user", "how are you")
	k1 := DeriveKey(seq)
	k2 := DeriveKey(seq)
	if k1 != k2 {
		t.Errorf("same turns must yield the same key: %q vs %q", k1, k2)
	}
	if k1 != "user:hi|assistant:hello|user:how are you" {
		t.Errorf("unexpected key format: %q", k1)
	}
}

func TestDeriveKeySensitivity(t *testing.T) {
	base := turns("user", "hi", "assistant", "hello", "user", "how are you")

	tests := []struct {
		name  string
		other []models.ChatMessage
	}{
		{"changed content", turns("user", "hi", "assistant", "hello", "user", "how are you?")},
		{"changed role", turns("user", "hi", "user", "hello", "user", "how are you")},
		{"fewer turns", turns("assistant", "hello", "user", "how are you")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if DeriveKey(tt.other) == DeriveKey(base) {
				t.Error("expected a different key")
			}
		})
	}
}

func TestDeriveKeyIgnoresOldHistory(t *testing.T) {
	short := turns("user", "a", "assistant", "b", "user", "c")
	long := turns("user", "ancient", "assistant", "history", "user", "a", "assistant", "b", "user", "c")

	if DeriveKey(short) != DeriveKey(long) {
		t.Error("turns beyond the last 3 must not affect the key")
	}
}

func TestDeriveKeyEmpty(t *testing.T) {
	if got := DeriveKey(nil); got != "" {
		t.Errorf("empty turn sequence must yield the empty key, got %q", got)
	}
}

func TestJSONWeight(t *testing.T) {
	if got := JSONWeight("abc"); got != len(`"abc"`) {
		t.Errorf("expected marshalled length, got %d", got)
	}

	// un-marshallable payloads fall back to a fixed cost proxy
	if got := JSONWeight(func() {}); got != fallbackWeight {
		t.Errorf("expected fallback weight %d, got %d", fallbackWeight, got)
	}
}
