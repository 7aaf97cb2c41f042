package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"statbot/internal/model"
	"statbot/internal/report"
)

// ReportService computes activity reports for a guild.
type ReportService interface {
	ComputeReport(ctx context.Context, kind report.Kind, guildID string, monthsAgo int, progress report.ProgressSink) (string, error)
}

type reportService struct {
	transport  ReportTransport
	aggregator *report.Aggregator
	now        func() time.Time
	timeout    time.Duration
}

// NewReportService constructs a ReportService. A zero timeout disables the
// per-report deadline.
func NewReportService(transport ReportTransport, skipFailedChannels bool, timeout time.Duration) ReportService {
	aggregator := report.NewAggregator(transport)
	aggregator.SkipFailedChannels = skipFailedChannels
	return &reportService{
		transport:  transport,
		aggregator: aggregator,
		now:        time.Now,
		timeout:    timeout,
	}
}

// ComputeReport aggregates every readable text channel of the guild over the
// month monthsAgo months back and renders the requested report.
func (s *reportService) ComputeReport(ctx context.Context, kind report.Kind, guildID string, monthsAgo int, progress report.ProgressSink) (string, error) {
	if monthsAgo < 0 {
		return "", &model.InvalidArgumentError{Argument: fmt.Sprint(monthsAgo), Usage: "months ago must not be negative"}
	}

	reducer, err := report.NewReducer(kind)
	if err != nil {
		return "", &model.UnknownCommandError{Command: "!" + string(kind)}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	channels, err := s.transport.GuildTextChannels(ctx, guildID)
	if err != nil {
		return "", &model.TransportError{Op: "list channels of guild " + guildID, Err: err}
	}

	window := report.WindowFor(s.now(), monthsAgo)
	started := s.now()
	if err := s.aggregator.Aggregate(ctx, channels, window, reducer, progress); err != nil {
		return "", err
	}
	log.Printf("[INFO] %s report for guild %s (%s): %d messages in %s", kind, guildID, window.Label(), reducer.Total(), s.now().Sub(started).Round(time.Millisecond))

	if reducer.Total() == 0 {
		return fmt.Sprintf("No messages found for %s.", window.Label()), nil
	}

	out := reducer.Render()
	if strings.TrimSpace(out) == "" {
		return fmt.Sprintf("No messages found for %s.", window.Label()), nil
	}
	return out, nil
}
