package cache

import (
	"encoding/json"
	"strings"

	"github.com/embedchat-ai/embedchat/pkg/models"
)

// keyTurnWindow bounds how much conversation history participates in the
// cache key. Keeping it short makes near-identical recent exchanges collide,
// which is the point: a repeated question under a slightly different history
// should still hit. Conversations that differ only further back map to the
// same key, an accepted false-hit risk since the full context still rides
// along with every request.
const keyTurnWindow = 3

// DeriveKey fingerprints a conversation by its last three turns. Each turn
// contributes "role:content" and the parts are joined with "|" in order. An
// empty turn slice yields the empty string, which is a valid key.
func DeriveKey(turns []models.ChatMessage) string {
	if len(turns) > keyTurnWindow {
		turns = turns[len(turns)-keyTurnWindow:]
	}
	parts := make([]string, len(turns))
	for i, t := range turns {
		parts[i] = t.Role + ":" + t.Content
	}
	return strings.Join(parts, "|")
}

// StringWeight weighs a payload by its length in bytes.
func StringWeight(s string) int { return len(s) }

// fallbackWeight stands in for payloads the JSON encoder rejects. A rough
// cost proxy is all the weight accounting needs.
const fallbackWeight = 1024

// JSONWeight weighs a structured payload by its marshalled length. The result
// approximates memory cost; callers must not read CurrentWeight as an exact
// byte count.
func JSONWeight[V any](value V) int {
	b, err := json.Marshal(value)
	if err != nil {
		return fallbackWeight
	}
	return len(b)
}
