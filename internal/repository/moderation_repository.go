package repository

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"statbot/internal/model"
)

// ModerationRepository defines database operations for moderation events.
type ModerationRepository interface {
	// Create inserts a single event.
	Create(ctx context.Context, event model.ModerationEvent) error

	// CreateBatch inserts multiple events in one ClickHouse batch.
	CreateBatch(ctx context.Context, events []model.ModerationEvent) error

	// FetchSummary counts events per action inside the filter's window.
	FetchSummary(ctx context.Context, filter model.ModerationFilter) ([]model.ModerationSummary, error)
}

type moderationRepository struct {
	conn clickhouse.Conn
}

// NewModerationRepository creates a ModerationRepository backed by ClickHouse.
func NewModerationRepository(conn clickhouse.Conn) ModerationRepository {
	return &moderationRepository{conn: conn}
}

const insertModerationQuery = `
	INSERT INTO moderation_events (event_id, guild_id, action, actor_id, target_id, channel_id, content, ts)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const batchModerationQuery = `INSERT INTO moderation_events (event_id, guild_id, action, actor_id, target_id, channel_id, content, ts)`

const summaryQuery = `
	SELECT action, count() AS total_count, uniqExact(actor_id) AS unique_actor_count
	FROM moderation_events
	WHERE guild_id = ? AND ts >= ? AND ts < ?
	GROUP BY action
	ORDER BY total_count DESC, action
`

func (r *moderationRepository) Create(ctx context.Context, event model.ModerationEvent) error {
	return r.conn.Exec(ctx, insertModerationQuery,
		eventID(event),
		event.GuildID,
		event.Action,
		event.ActorID,
		nullIfEmpty(event.TargetID),
		nullIfEmpty(event.ChannelID),
		event.Content,
		event.Timestamp,
	)
}

func (r *moderationRepository) CreateBatch(ctx context.Context, events []model.ModerationEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, batchModerationQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			eventID(event),
			event.GuildID,
			event.Action,
			event.ActorID,
			nullIfEmpty(event.TargetID),
			nullIfEmpty(event.ChannelID),
			event.Content,
			event.Timestamp,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (r *moderationRepository) FetchSummary(ctx context.Context, filter model.ModerationFilter) ([]model.ModerationSummary, error) {
	var rows []model.ModerationSummary
	if err := r.conn.Select(ctx, &rows, summaryQuery, filter.GuildID, filter.From, filter.To); err != nil {
		return nil, fmt.Errorf("select summary: %w", err)
	}
	return rows, nil
}

// eventID keeps a caller-assigned id so retried inserts collapse in the
// ReplacingMergeTree.
func eventID(event model.ModerationEvent) uuid.UUID {
	if event.ID == uuid.Nil {
		return uuid.New()
	}
	return event.ID
}

func nullIfEmpty(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
