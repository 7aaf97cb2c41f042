package reactionrole

import (
	"context"
	"log"
	"slices"

	"statbot/internal/model"
)

// RoleManager reads and changes a member's roles.
type RoleManager interface {
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error
}

// EntryLookup finds the reaction-role entry of a message.
type EntryLookup interface {
	Get(messageID string) (Entry, bool)
}

// ReactionEvent is a reaction added to or removed from a message.
type ReactionEvent struct {
	MessageID string
	GuildID   string
	UserID    string
	// Emoji is the normalized emoji token, see EmojiToken.
	Emoji string
}

// Reconciler keeps role membership in line with reactions on reaction-role
// messages.
type Reconciler struct {
	entries EntryLookup
	roles   RoleManager
}

// NewReconciler creates a Reconciler.
func NewReconciler(entries EntryLookup, roles RoleManager) *Reconciler {
	return &Reconciler{entries: entries, roles: roles}
}

// OnReactionAdded grants the bound role if the member lacks it.
func (r *Reconciler) OnReactionAdded(ctx context.Context, ev ReactionEvent) error {
	roleID, ok := r.boundRole(ev)
	if !ok {
		return nil
	}

	held, err := r.holds(ctx, ev, roleID)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	if err := r.roles.AddMemberRole(ctx, ev.GuildID, ev.UserID, roleID); err != nil {
		return &model.TransportError{Op: "grant role " + roleID, Err: err}
	}
	log.Printf("[INFO] granted role %s to user %s via message %s", roleID, ev.UserID, ev.MessageID)
	return nil
}

// OnReactionRemoved revokes the bound role if the member holds it.
func (r *Reconciler) OnReactionRemoved(ctx context.Context, ev ReactionEvent) error {
	roleID, ok := r.boundRole(ev)
	if !ok {
		return nil
	}

	held, err := r.holds(ctx, ev, roleID)
	if err != nil {
		return err
	}
	if !held {
		return nil
	}

	if err := r.roles.RemoveMemberRole(ctx, ev.GuildID, ev.UserID, roleID); err != nil {
		return &model.TransportError{Op: "revoke role " + roleID, Err: err}
	}
	log.Printf("[INFO] revoked role %s from user %s via message %s", roleID, ev.UserID, ev.MessageID)
	return nil
}

func (r *Reconciler) boundRole(ev ReactionEvent) (string, bool) {
	entry, ok := r.entries.Get(ev.MessageID)
	if !ok {
		return "", false
	}
	return entry.RoleFor(NormalizeToken(ev.Emoji))
}

func (r *Reconciler) holds(ctx context.Context, ev ReactionEvent, roleID string) (bool, error) {
	roles, err := r.roles.MemberRoles(ctx, ev.GuildID, ev.UserID)
	if err != nil {
		return false, &model.TransportError{Op: "fetch member " + ev.UserID, Err: err}
	}
	return slices.Contains(roles, roleID), nil
}
