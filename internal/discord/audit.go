package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"statbot/internal/model"
)

var actionNames = map[discordgo.AuditLogAction]string{
	discordgo.AuditLogActionGuildUpdate:       "guild_update",
	discordgo.AuditLogActionChannelCreate:     "channel_create",
	discordgo.AuditLogActionChannelUpdate:     "channel_update",
	discordgo.AuditLogActionChannelDelete:     "channel_delete",
	discordgo.AuditLogActionMemberKick:        "kick",
	discordgo.AuditLogActionMemberPrune:       "member_prune",
	discordgo.AuditLogActionMemberBanAdd:      "ban",
	discordgo.AuditLogActionMemberBanRemove:   "unban",
	discordgo.AuditLogActionMemberUpdate:      "member_update",
	discordgo.AuditLogActionMemberRoleUpdate:  "member_role_update",
	discordgo.AuditLogActionMemberMove:        "member_move",
	discordgo.AuditLogActionMemberDisconnect:  "member_disconnect",
	discordgo.AuditLogActionBotAdd:            "bot_add",
	discordgo.AuditLogActionRoleCreate:        "role_create",
	discordgo.AuditLogActionRoleUpdate:        "role_update",
	discordgo.AuditLogActionRoleDelete:        "role_delete",
	discordgo.AuditLogActionInviteCreate:      "invite_create",
	discordgo.AuditLogActionInviteDelete:      "invite_delete",
	discordgo.AuditLogActionWebhookCreate:     "webhook_create",
	discordgo.AuditLogActionWebhookDelete:     "webhook_delete",
	discordgo.AuditLogActionEmojiCreate:       "emoji_create",
	discordgo.AuditLogActionEmojiDelete:       "emoji_delete",
	discordgo.AuditLogActionMessageDelete:     "message_delete",
	discordgo.AuditLogActionMessageBulkDelete: "message_bulk_delete",
	discordgo.AuditLogActionMessagePin:        "message_pin",
	discordgo.AuditLogActionMessageUnpin:      "message_unpin",
}

// AuditLog returns the most recent limit entries of a guild's audit log,
// newest first.
func (c *Client) AuditLog(ctx context.Context, guildID string, limit int) ([]model.AuditEntry, error) {
	auditLog, err := c.session.GuildAuditLog(guildID, "", "", 0, limit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch audit log: %w", err)
	}
	return auditEntries(guildID, auditLog), nil
}

func auditEntries(guildID string, auditLog *discordgo.GuildAuditLog) []model.AuditEntry {
	bots := make(map[string]bool, len(auditLog.Users))
	for _, u := range auditLog.Users {
		bots[u.ID] = u.Bot
	}

	entries := make([]model.AuditEntry, 0, len(auditLog.AuditLogEntries))
	for _, e := range auditLog.AuditLogEntries {
		var action discordgo.AuditLogAction
		if e.ActionType != nil {
			action = *e.ActionType
		}
		created, _ := discordgo.SnowflakeTimestamp(e.ID)
		entries = append(entries, model.AuditEntry{
			ID:          e.ID,
			GuildID:     guildID,
			Action:      actionName(action),
			ActorID:     e.UserID,
			ActorIsBot:  bots[e.UserID],
			TargetID:    e.TargetID,
			TargetLabel: targetLabel(action, e.TargetID),
			CreatedAt:   created.UTC(),
		})
	}
	return entries
}

func actionName(action discordgo.AuditLogAction) string {
	if name, ok := actionNames[action]; ok {
		return name
	}
	return "action_" + strconv.Itoa(int(action))
}

// targetLabel renders the target of an action as a mention.
func targetLabel(action discordgo.AuditLogAction, targetID string) string {
	if targetID == "" {
		return "the server"
	}
	switch {
	case action == discordgo.AuditLogActionMessageBulkDelete:
		return model.ChannelMention(targetID)
	case action >= discordgo.AuditLogActionChannelCreate && action < discordgo.AuditLogActionMemberKick:
		return model.ChannelMention(targetID)
	case action >= discordgo.AuditLogActionMemberKick && action <= discordgo.AuditLogActionBotAdd,
		action >= discordgo.AuditLogActionMessageDelete && action <= discordgo.AuditLogActionMessageUnpin:
		return model.UserMention(targetID)
	case action >= discordgo.AuditLogActionRoleCreate && action <= discordgo.AuditLogActionRoleDelete:
		return model.RoleMention(targetID)
	default:
		return targetID
	}
}
