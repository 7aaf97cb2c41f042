package mocktransport

import (
	"context"
	"iter"
	"time"

	"statbot/internal/model"
	"statbot/internal/reactionrole"
	"statbot/internal/report"

	"github.com/stretchr/testify/mock"
)

type Transport struct {
	mock.Mock
}

// Interface compliance check
var (
	_ report.HistorySource     = &Transport{}
	_ reactionrole.RoleManager = &Transport{}
)

// Messages turns a fixed list into a history sequence.
func Messages(msgs ...model.Message) iter.Seq2[model.Message, error] {
	return func(yield func(model.Message, error) bool) {
		for _, m := range msgs {
			if !yield(m, nil) {
				return
			}
		}
	}
}

// Failing is a history sequence that fails immediately.
func Failing(err error) iter.Seq2[model.Message, error] {
	return func(yield func(model.Message, error) bool) {
		yield(model.Message{}, err)
	}
}

func (m *Transport) CanReadHistory(ctx context.Context, channel model.Channel) bool {
	return m.Called(ctx, channel).Bool(0)
}

func (m *Transport) History(ctx context.Context, channelID string, after, before time.Time) iter.Seq2[model.Message, error] {
	args := m.Called(ctx, channelID, after, before)
	return args.Get(0).(iter.Seq2[model.Message, error])
}

func (m *Transport) GuildTextChannels(ctx context.Context, guildID string) ([]model.Channel, error) {
	args := m.Called(ctx, guildID)
	if v := args.Get(0); v != nil {
		return v.([]model.Channel), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	args := m.Called(ctx, channelID, content)
	return args.String(0), args.Error(1)
}

func (m *Transport) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	return m.Called(ctx, channelID, messageID, content).Error(0)
}

func (m *Transport) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return m.Called(ctx, channelID, messageID).Error(0)
}

func (m *Transport) FetchMessage(ctx context.Context, channelID, messageID string) (model.Message, error) {
	args := m.Called(ctx, channelID, messageID)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *Transport) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return m.Called(ctx, channelID, messageID, emoji).Error(0)
}

func (m *Transport) Typing(ctx context.Context, channelID string) error {
	return m.Called(ctx, channelID).Error(0)
}

func (m *Transport) GuildRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	args := m.Called(ctx, guildID)
	if v := args.Get(0); v != nil {
		return v.([]model.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	args := m.Called(ctx, guildID, userID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return m.Called(ctx, guildID, userID, roleID).Error(0)
}

func (m *Transport) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	return m.Called(ctx, guildID, userID, roleID).Error(0)
}

func (m *Transport) Guilds(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) AuditLog(ctx context.Context, guildID string, limit int) ([]model.AuditEntry, error) {
	args := m.Called(ctx, guildID, limit)
	if v := args.Get(0); v != nil {
		return v.([]model.AuditEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) SendDirectMessage(ctx context.Context, userID, content string) error {
	return m.Called(ctx, userID, content).Error(0)
}
