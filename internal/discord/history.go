package discord

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"statbot/internal/model"
)

const (
	historyPageSize = 100

	// discordEpoch is the first millisecond of 2015 in Unix milliseconds.
	discordEpoch = 1420070400000
)

// History pages forward through a channel from after until before, oldest
// message first. Pages are fetched lazily as the sequence is consumed.
func (c *Client) History(ctx context.Context, channelID string, after, before time.Time) iter.Seq2[model.Message, error] {
	return func(yield func(model.Message, error) bool) {
		cursor := snowflakeBefore(after)
		for {
			if err := ctx.Err(); err != nil {
				yield(model.Message{}, err)
				return
			}

			page, err := c.session.ChannelMessages(channelID, historyPageSize, "", cursor, "", discordgo.WithContext(ctx))
			if err != nil {
				yield(model.Message{}, fmt.Errorf("fetch messages after %s: %w", cursor, err))
				return
			}
			if len(page) == 0 {
				return
			}
			sortOldestFirst(page)

			for _, m := range page {
				if !m.Timestamp.Before(before) {
					return
				}
				if m.Timestamp.Before(after) {
					continue
				}
				if !yield(toMessage(m), nil) {
					return
				}
			}

			if len(page) < historyPageSize {
				return
			}
			cursor = page[len(page)-1].ID
		}
	}
}

// snowflakeBefore returns the largest id that sorts before every message
// created at or after t.
func snowflakeBefore(t time.Time) string {
	ms := t.UnixMilli() - discordEpoch
	if ms <= 0 {
		return "0"
	}
	return strconv.FormatUint(uint64(ms)<<22-1, 10)
}

func sortOldestFirst(page []*discordgo.Message) {
	sort.Slice(page, func(i, j int) bool { return snowflakeLess(page[i].ID, page[j].ID) })
}

// snowflakeLess compares two decimal snowflakes numerically.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
