package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunMigrations ensures required tables exist. This keeps the bot
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS moderation_events
(
	event_id        UUID,
	guild_id        String,
	action          LowCardinality(String),
	actor_id        String,
	target_id       Nullable(String),
	channel_id      Nullable(String),
	content         String DEFAULT '',
	ts              DateTime64(3, 'UTC'),
	ingested_at     DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(ts)
ORDER BY (guild_id, action, ts, event_id)
SETTINGS
    index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
