package service

import (
	"context"

	"statbot/internal/model"
	"statbot/internal/report"
)

// ReportTransport is what report computation needs from the chat service.
type ReportTransport interface {
	report.HistorySource
	GuildTextChannels(ctx context.Context, guildID string) ([]model.Channel, error)
}

// MessageTransport sends and edits the bot's own messages.
type MessageTransport interface {
	SendMessage(ctx context.Context, channelID, content string) (string, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	FetchMessage(ctx context.Context, channelID, messageID string) (model.Message, error)
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	GuildRoles(ctx context.Context, guildID string) ([]model.Role, error)
}

// ModerationTransport reads audit logs and reaches the owner.
type ModerationTransport interface {
	Guilds(ctx context.Context) ([]string, error)
	AuditLog(ctx context.Context, guildID string, limit int) ([]model.AuditEntry, error)
	SendDirectMessage(ctx context.Context, userID, content string) error
	GuildRoles(ctx context.Context, guildID string) ([]model.Role, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
}
