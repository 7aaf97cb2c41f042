package reactionrole

import (
	"log"
	"maps"
	"sync"
	"sync/atomic"

	"statbot/internal/model"
)

// Store is the process-wide reaction-role map. Mutations are serialized and
// flushed to the persister before they become visible; reads use an
// immutable snapshot and never block.
type Store struct {
	mu        sync.Mutex
	persister Persister
	name      string
	entries   atomic.Pointer[map[string]Entry]
}

// Open loads the map from persister.
func Open(persister Persister) (*Store, error) {
	entries, err := persister.Load()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = map[string]Entry{}
	}

	s := &Store{persister: persister, name: "reaction roles"}
	if fp, ok := persister.(*FilePersister); ok {
		s.name = fp.Path()
	}
	s.entries.Store(&entries)
	log.Printf("[INFO] loaded %d reaction-role messages", len(entries))
	return s, nil
}

// Get returns the entry for messageID.
func (s *Store) Get(messageID string) (Entry, bool) {
	entry, ok := (*s.entries.Load())[messageID]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Snapshot returns a copy of every entry keyed by message id.
func (s *Store) Snapshot() map[string]Entry {
	current := *s.entries.Load()
	out := make(map[string]Entry, len(current))
	for id, entry := range current {
		out[id] = entry.clone()
	}
	return out
}

// Len is the number of reaction-role messages.
func (s *Store) Len() int {
	return len(*s.entries.Load())
}

// Create stores the bindings of a newly sent message.
func (s *Store) Create(messageID, channelID string, bindings []Binding) (Entry, error) {
	if len(bindings) == 0 {
		return Entry{}, &model.InvalidArgumentError{Argument: "bindings", Usage: "at least one emoji and role pair is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{MessageID: messageID, ChannelID: channelID, Bindings: bindingMap(bindings)}
	if err := s.commit(entry); err != nil {
		return Entry{}, err
	}
	return entry.clone(), nil
}

// Edit replaces the bindings of an existing message. The origin channel is
// kept. Bindings absent from the new set are dropped.
func (s *Store) Edit(messageID string, bindings []Binding) (Entry, error) {
	if len(bindings) == 0 {
		return Entry{}, &model.InvalidArgumentError{Argument: "bindings", Usage: "at least one emoji and role pair is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := (*s.entries.Load())[messageID]
	if !ok {
		return Entry{}, &model.UnknownMessageError{MessageID: messageID}
	}

	entry := Entry{MessageID: messageID, ChannelID: existing.ChannelID, Bindings: bindingMap(bindings)}
	if err := s.commit(entry); err != nil {
		return Entry{}, err
	}
	return entry.clone(), nil
}

// commit flushes the map with entry applied and swaps it in. On a failed
// flush the in-memory map is left as it was. Callers hold s.mu.
func (s *Store) commit(entry Entry) error {
	next := maps.Clone(*s.entries.Load())
	next[entry.MessageID] = entry

	if err := s.persister.Save(next); err != nil {
		log.Printf("[ERROR] reaction-role update for message %s not saved: %v", entry.MessageID, err)
		return &model.PersistenceError{Path: s.name, Err: err}
	}
	s.entries.Store(&next)
	return nil
}
