package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"statbot/internal/model"
)

// AuditMonitor polls guild audit logs and tells the owner about actions
// taken by other people.
type AuditMonitor struct {
	transport ModerationTransport
	worker    ModerationWorker
	ownerID   string
	interval  time.Duration
	limit     int
	now       func() time.Time

	cursors map[string]auditCursor
}

// auditCursor marks how far a guild's audit log has been read. Until an entry
// has been seen, since bounds the first look back.
type auditCursor struct {
	since  time.Time
	lastID string
}

func (c auditCursor) isNew(entry model.AuditEntry) bool {
	if c.lastID != "" {
		return snowflakeAfter(entry.ID, c.lastID)
	}
	return !entry.CreatedAt.Before(c.since)
}

// NewAuditMonitor constructs an AuditMonitor.
func NewAuditMonitor(transport ModerationTransport, worker ModerationWorker, ownerID string, interval time.Duration, limit int) *AuditMonitor {
	return &AuditMonitor{
		transport: transport,
		worker:    worker,
		ownerID:   ownerID,
		interval:  interval,
		limit:     limit,
		now:       time.Now,
		cursors:   make(map[string]auditCursor),
	}
}

// Run polls immediately and then on every interval until ctx is done.
func (m *AuditMonitor) Run(ctx context.Context) error {
	log.Printf("[INFO] audit monitor started, interval %s", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Poll(ctx)

		select {
		case <-ctx.Done():
			log.Println("[INFO] audit monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Poll checks every guild once. Failures are logged and never stop the
// monitor.
func (m *AuditMonitor) Poll(ctx context.Context) {
	guilds, err := m.transport.Guilds(ctx)
	if err != nil {
		log.Printf("[ERROR] audit monitor: list guilds: %v", err)
		return
	}

	for _, guildID := range guilds {
		if err := m.pollGuild(ctx, guildID); err != nil {
			log.Printf("[ERROR] audit monitor: guild %s: %v", guildID, err)
		}
	}
}

func (m *AuditMonitor) pollGuild(ctx context.Context, guildID string) error {
	cursor, ok := m.cursors[guildID]
	if !ok {
		cursor = auditCursor{since: m.now().Add(-m.interval)}
	}

	entries, err := m.transport.AuditLog(ctx, guildID, m.limit)
	if err != nil {
		return fmt.Errorf("fetch audit log: %w", err)
	}

	next := cursor
	for _, entry := range entries {
		if entry.ID != "" && (next.lastID == "" || snowflakeAfter(entry.ID, next.lastID)) {
			next.lastID = entry.ID
		}
	}
	m.cursors[guildID] = next

	for _, entry := range entries {
		if !cursor.isNew(entry) {
			break
		}
		if !m.reportable(entry) {
			continue
		}

		text := fmt.Sprintf("User %s triggered %s on %s.", model.UserMention(entry.ActorID), entry.Action, entry.TargetLabel)
		if err := m.transport.SendDirectMessage(ctx, m.ownerID, text); err != nil {
			log.Printf("[WARN] audit monitor: notify owner: %v", err)
		}
		m.worker.Enqueue(model.ModerationEvent{
			ID:        model.ModerationEventID(guildID, entry.ID),
			GuildID:   guildID,
			Action:    entry.Action,
			ActorID:   entry.ActorID,
			TargetID:  entry.TargetID,
			Timestamp: entry.CreatedAt,
		})
	}
	return nil
}

func (m *AuditMonitor) reportable(entry model.AuditEntry) bool {
	return entry.ActorID != m.ownerID &&
		entry.ActorID != entry.TargetID &&
		!entry.ActorIsBot
}

// snowflakeAfter compares two decimal snowflakes numerically.
func snowflakeAfter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
