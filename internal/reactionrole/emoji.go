package reactionrole

import (
	"fmt"
	"strings"
)

// EmojiToken returns the binding key for a reaction emoji. Unicode emoji are
// keyed by the grapheme itself, custom emoji by "<:name:id>".
func EmojiToken(name, id string) string {
	if id == "" {
		return name
	}
	return fmt.Sprintf("<:%s:%s>", name, id)
}

// NormalizeToken folds user-typed emoji into the form reaction events produce.
// Animated custom emoji "<a:name:id>" become "<:name:id>".
func NormalizeToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "<a:") && strings.HasSuffix(raw, ">") {
		return "<:" + raw[len("<a:"):]
	}
	return raw
}

// ReactionAPIName converts a token to the form the reaction endpoint expects:
// the grapheme for unicode emoji, "name:id" for custom ones.
func ReactionAPIName(token string) string {
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
		inner = strings.TrimPrefix(inner, "a:")
		return strings.TrimPrefix(inner, ":")
	}
	return token
}
