package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"statbot/internal/model"
)

// ActionMessageDelete is the audit action recorded for a moderator deleting
// someone else's message.
const ActionMessageDelete = "message_delete"

// ModerationNotifier reacts to deletions and joins.
type ModerationNotifier struct {
	transport ModerationTransport
	worker    ModerationWorker
	ownerID   string
	joinRole  string
	now       func() time.Time
}

// NewModerationNotifier constructs a ModerationNotifier. joinRole is the name
// of the role given to every new member; empty disables it.
func NewModerationNotifier(transport ModerationTransport, worker ModerationWorker, ownerID, joinRole string) *ModerationNotifier {
	return &ModerationNotifier{
		transport: transport,
		worker:    worker,
		ownerID:   ownerID,
		joinRole:  joinRole,
		now:       time.Now,
	}
}

// DeletedMessage describes a message-delete gateway event. Content is only
// known when the message was still cached.
type DeletedMessage struct {
	GuildID   string
	ChannelID string
	MessageID string
	Content   string
	Cached    bool
}

// OnMessageDeleted reports the deletion to the owner when the latest audit
// entry shows someone other than the owner deleted a message.
func (n *ModerationNotifier) OnMessageDeleted(ctx context.Context, msg DeletedMessage) error {
	if msg.GuildID == "" {
		return nil
	}

	entries, err := n.transport.AuditLog(ctx, msg.GuildID, 1)
	if err != nil {
		return &model.TransportError{Op: "fetch audit log", Err: err}
	}
	if len(entries) == 0 {
		return nil
	}

	entry := entries[0]
	if entry.Action != ActionMessageDelete || entry.ActorID == n.ownerID {
		return nil
	}

	content := ""
	if msg.Cached {
		content = msg.Content + " "
	}
	text := fmt.Sprintf("User %s deleted message %sin channel %s.", model.UserMention(entry.ActorID), content, model.ChannelMention(msg.ChannelID))
	if err := n.transport.SendDirectMessage(ctx, n.ownerID, text); err != nil {
		return &model.TransportError{Op: "notify owner", Err: err}
	}

	n.worker.Enqueue(model.ModerationEvent{
		ID:        model.ModerationEventID(msg.GuildID, ActionMessageDelete, msg.MessageID),
		GuildID:   msg.GuildID,
		Action:    ActionMessageDelete,
		ActorID:   entry.ActorID,
		TargetID:  entry.TargetID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		Timestamp: n.now().UTC(),
	})
	return nil
}

// OnMemberJoined gives a new member the join role.
func (n *ModerationNotifier) OnMemberJoined(ctx context.Context, guildID, userID string) error {
	if n.joinRole == "" {
		return nil
	}

	roles, err := n.transport.GuildRoles(ctx, guildID)
	if err != nil {
		return &model.TransportError{Op: "list roles of guild " + guildID, Err: err}
	}

	for _, role := range roles {
		if role.Name != n.joinRole {
			continue
		}
		if err := n.transport.AddMemberRole(ctx, guildID, userID, role.ID); err != nil {
			return &model.TransportError{Op: "grant join role", Err: err}
		}
		return nil
	}

	log.Printf("[WARN] guild %s has no role named %q for new members", guildID, n.joinRole)
	return nil
}
