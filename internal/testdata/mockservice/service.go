package mockservice

import (
	"context"

	"statbot/internal/reactionrole"
	"statbot/internal/report"
	"statbot/internal/service"

	"github.com/stretchr/testify/mock"
)

type Reports struct {
	mock.Mock
}

func (m *Reports) ComputeReport(ctx context.Context, kind report.Kind, guildID string, monthsAgo int, progress report.ProgressSink) (string, error) {
	args := m.Called(ctx, kind, guildID, monthsAgo, progress)
	return args.String(0), args.Error(1)
}

type ReactionRoles struct {
	mock.Mock
}

func (m *ReactionRoles) Create(ctx context.Context, guildID, channelID, title string, specs []reactionrole.BindingSpec) (service.ReactionRoleResult, error) {
	args := m.Called(ctx, guildID, channelID, title, specs)
	return args.Get(0).(service.ReactionRoleResult), args.Error(1)
}

func (m *ReactionRoles) Edit(ctx context.Context, guildID, messageID string, specs []reactionrole.BindingSpec) (service.ReactionRoleResult, error) {
	args := m.Called(ctx, guildID, messageID, specs)
	return args.Get(0).(service.ReactionRoleResult), args.Error(1)
}

func (m *ReactionRoles) List() []reactionrole.Entry {
	args := m.Called()
	entries, _ := args.Get(0).([]reactionrole.Entry)
	return entries
}

var (
	_ service.ReportService       = (*Reports)(nil)
	_ service.ReactionRoleService = (*ReactionRoles)(nil)
)
