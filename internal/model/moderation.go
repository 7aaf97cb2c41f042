package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one row of a guild's audit log.
type AuditEntry struct {
	ID          string
	GuildID     string
	Action      string
	ActorID     string
	ActorIsBot  bool
	TargetID    string
	TargetLabel string
	CreatedAt   time.Time
}

// ModerationEvent is an action worth reporting to the owner and archiving.
type ModerationEvent struct {
	// ID is assigned when the event is first stored if left zero.
	ID        uuid.UUID
	GuildID   string
	Action    string
	ActorID   string
	TargetID  string
	ChannelID string
	Content   string
	Timestamp time.Time
}

var moderationNamespace = uuid.MustParse("3b8f6c1e-27d4-4f0a-9d56-8e2c41a7b905")

// ModerationEventID derives a stable event id from its source identifiers,
// so a re-archived event keeps the id of its first insert.
func ModerationEventID(parts ...string) uuid.UUID {
	return uuid.NewSHA1(moderationNamespace, []byte(strings.Join(parts, ":")))
}

// ModerationSummary is an aggregated count of moderation events per action.
type ModerationSummary struct {
	Action      string `ch:"action" json:"action"`
	TotalCount  uint64 `ch:"total_count" json:"total_count"`
	UniqueActor uint64 `ch:"unique_actor_count" json:"unique_actor_count"`
}

// ModerationFilter scopes a summary query.
type ModerationFilter struct {
	GuildID string
	From    time.Time
	To      time.Time
}
