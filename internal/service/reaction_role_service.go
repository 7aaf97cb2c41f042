package service

import (
	"context"
	"log"

	"statbot/internal/model"
	"statbot/internal/reactionrole"
)

// ReactionRoleResult describes a created or edited reaction-role message.
type ReactionRoleResult struct {
	MessageID string            `json:"message_id"`
	ChannelID string            `json:"channel_id"`
	Body      string            `json:"body"`
	Bindings  map[string]string `json:"bindings"`
}

// ReactionRoleService manages reaction-role messages.
type ReactionRoleService interface {
	Create(ctx context.Context, guildID, channelID, title string, specs []reactionrole.BindingSpec) (ReactionRoleResult, error)
	Edit(ctx context.Context, guildID, messageID string, specs []reactionrole.BindingSpec) (ReactionRoleResult, error)
	List() []reactionrole.Entry
}

type reactionRoleService struct {
	transport MessageTransport
	store     *reactionrole.Store
}

// NewReactionRoleService constructs a ReactionRoleService.
func NewReactionRoleService(transport MessageTransport, store *reactionrole.Store) ReactionRoleService {
	return &reactionRoleService{transport: transport, store: store}
}

const bindingsUsage = "`!rr new <title> <emoji> <role> ...` or `!rr edit <message id> <emoji> <role> ...`"

// Create resolves the roles, posts the message, records its bindings and
// seeds it with one reaction per emoji.
func (s *reactionRoleService) Create(ctx context.Context, guildID, channelID, title string, specs []reactionrole.BindingSpec) (ReactionRoleResult, error) {
	bindings, err := s.resolve(ctx, guildID, specs)
	if err != nil {
		return ReactionRoleResult{}, err
	}

	body := reactionrole.RenderBody(title, bindings)
	messageID, err := s.transport.SendMessage(ctx, channelID, body)
	if err != nil {
		return ReactionRoleResult{}, &model.TransportError{Op: "send reaction-role message", Err: err}
	}

	entry, err := s.store.Create(messageID, channelID, bindings)
	if err != nil {
		// Without a stored mapping the message would hand out nothing.
		if delErr := s.transport.DeleteMessage(ctx, channelID, messageID); delErr != nil {
			log.Printf("[ERROR] could not remove unsaved reaction-role message %s: %v", messageID, delErr)
		}
		return ReactionRoleResult{}, err
	}

	s.seedReactions(ctx, channelID, messageID, bindings)
	log.Printf("[INFO] reaction-role message %s created in channel %s with %d bindings", messageID, channelID, len(entry.Bindings))
	return newResult(entry, body), nil
}

// Edit rewrites an existing message's bindings below its original title.
func (s *reactionRoleService) Edit(ctx context.Context, guildID, messageID string, specs []reactionrole.BindingSpec) (ReactionRoleResult, error) {
	existing, ok := s.store.Get(messageID)
	if !ok {
		return ReactionRoleResult{}, &model.UnknownMessageError{MessageID: messageID}
	}

	bindings, err := s.resolve(ctx, guildID, specs)
	if err != nil {
		return ReactionRoleResult{}, err
	}

	msg, err := s.transport.FetchMessage(ctx, existing.ChannelID, messageID)
	if err != nil {
		return ReactionRoleResult{}, &model.TransportError{Op: "fetch reaction-role message " + messageID, Err: err}
	}

	body := reactionrole.RenderBodyWithHeader(reactionrole.HeaderOf(msg.Content), bindings)
	if err := s.transport.EditMessage(ctx, existing.ChannelID, messageID, body); err != nil {
		return ReactionRoleResult{}, &model.TransportError{Op: "edit reaction-role message " + messageID, Err: err}
	}

	entry, err := s.store.Edit(messageID, bindings)
	if err != nil {
		// The stored bindings are unchanged, so the message goes back to match them.
		if restoreErr := s.transport.EditMessage(ctx, existing.ChannelID, messageID, msg.Content); restoreErr != nil {
			log.Printf("[ERROR] could not restore reaction-role message %s: %v", messageID, restoreErr)
		}
		return ReactionRoleResult{}, err
	}

	s.seedReactions(ctx, existing.ChannelID, messageID, bindings)
	log.Printf("[INFO] reaction-role message %s edited, %d bindings", messageID, len(entry.Bindings))
	return newResult(entry, body), nil
}

// List returns every stored reaction-role entry.
func (s *reactionRoleService) List() []reactionrole.Entry {
	snapshot := s.store.Snapshot()
	out := make([]reactionrole.Entry, 0, len(snapshot))
	for _, entry := range snapshot {
		out = append(out, entry)
	}
	return out
}

func (s *reactionRoleService) resolve(ctx context.Context, guildID string, specs []reactionrole.BindingSpec) ([]reactionrole.Binding, error) {
	if len(specs) == 0 {
		return nil, &model.InvalidArgumentError{Argument: "bindings", Usage: bindingsUsage}
	}

	roles, err := s.transport.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, &model.TransportError{Op: "list roles of guild " + guildID, Err: err}
	}
	return reactionrole.ResolveBindings(roles, specs)
}

func (s *reactionRoleService) seedReactions(ctx context.Context, channelID, messageID string, bindings []reactionrole.Binding) {
	for _, emoji := range reactionrole.ReactionOrder(bindings) {
		if err := s.transport.AddReaction(ctx, channelID, messageID, emoji); err != nil {
			log.Printf("[WARN] add reaction %s to message %s: %v", emoji, messageID, err)
		}
	}
}

func newResult(entry reactionrole.Entry, body string) ReactionRoleResult {
	return ReactionRoleResult{
		MessageID: entry.MessageID,
		ChannelID: entry.ChannelID,
		Body:      body,
		Bindings:  entry.Bindings,
	}
}
