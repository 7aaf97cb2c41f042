package report

import (
	"context"
	"iter"
	"log"
	"time"

	"statbot/internal/model"
)

// HistorySource is the chat transport as seen by the aggregator.
type HistorySource interface {
	// CanReadHistory reports whether the bot may read the channel's history.
	CanReadHistory(ctx context.Context, channel model.Channel) bool

	// History yields every message of the channel created in [after, before).
	// Ordering is unspecified. The sequence stops after yielding an error.
	History(ctx context.Context, channelID string, after, before time.Time) iter.Seq2[model.Message, error]
}

// ProgressSink receives best-effort progress notifications.
type ProgressSink interface {
	ChannelStarted(ctx context.Context, channel model.Channel) error
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(ctx context.Context, channel model.Channel) error

func (f ProgressFunc) ChannelStarted(ctx context.Context, channel model.Channel) error {
	return f(ctx, channel)
}

// Aggregator feeds the non-bot messages of a window to a reducer.
type Aggregator struct {
	source HistorySource

	// SkipFailedChannels logs and skips channels whose history cannot be
	// fetched instead of failing the whole aggregate.
	SkipFailedChannels bool
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source HistorySource) *Aggregator {
	return &Aggregator{source: source}
}

// Aggregate walks channels sequentially and calls reducer.Reduce once for
// every message in the window not authored by a bot. progress may be nil.
func (a *Aggregator) Aggregate(ctx context.Context, channels []model.Channel, w Window, reducer Reducer, progress ProgressSink) error {
	for _, channel := range channels {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !a.source.CanReadHistory(ctx, channel) {
			continue
		}

		if progress != nil {
			if err := progress.ChannelStarted(ctx, channel); err != nil {
				log.Printf("[WARN] progress update for channel %s failed: %v", channel.ID, err)
			}
		}

		if err := a.aggregateChannel(ctx, channel, w, reducer); err != nil {
			if a.SkipFailedChannels && ctx.Err() == nil {
				log.Printf("[WARN] skipping channel %s: %v", channel.ID, err)
				continue
			}
			return err
		}
	}
	return nil
}

func (a *Aggregator) aggregateChannel(ctx context.Context, channel model.Channel, w Window, reducer Reducer) error {
	for msg, err := range a.source.History(ctx, channel.ID, w.Start, w.End) {
		if err != nil {
			return &model.TransportError{Op: "fetch history of channel " + channel.ID, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if msg.AuthorIsBot {
			continue
		}
		reducer.Reduce(msg)
	}
	return nil
}
