package reactionrole

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// channelKey is where the origin channel id lives inside a persisted entry,
// alongside the emoji bindings.
const channelKey = "channel"

// Entry maps the emoji of one reaction-role message to role ids.
type Entry struct {
	MessageID string
	ChannelID string
	Bindings  map[string]string
}

// Emojis returns the bound emoji tokens in sorted order.
func (e Entry) Emojis() []string {
	return slices.Sorted(maps.Keys(e.Bindings))
}

// RoleFor returns the role bound to emoji.
func (e Entry) RoleFor(emoji string) (string, bool) {
	role, ok := e.Bindings[emoji]
	return role, ok
}

func (e Entry) clone() Entry {
	e.Bindings = maps.Clone(e.Bindings)
	return e
}

// MarshalJSON writes the flat {"channel": id, "<emoji>": roleID} object.
// Numeric snowflakes are written as JSON numbers.
func (e Entry) MarshalJSON() ([]byte, error) {
	flat := make(map[string]json.RawMessage, len(e.Bindings)+1)
	flat[channelKey] = idJSON(e.ChannelID)
	for emoji, role := range e.Bindings {
		flat[emoji] = idJSON(role)
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat object. Ids may be numbers or strings.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	e.Bindings = make(map[string]string, len(flat))
	for key, raw := range flat {
		id, err := parseID(raw)
		if err != nil {
			return fmt.Errorf("entry key %q: %w", key, err)
		}
		if key == channelKey {
			e.ChannelID = id
			continue
		}
		e.Bindings[key] = id
	}
	if e.ChannelID == "" {
		return fmt.Errorf("entry has no %q", channelKey)
	}
	return nil
}

func idJSON(id string) json.RawMessage {
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return json.RawMessage(id)
	}
	b, _ := json.Marshal(id)
	return b
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
