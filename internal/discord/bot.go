package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"statbot/internal/command"
	"statbot/internal/reactionrole"
	"statbot/internal/service"
)

// Bot routes gateway events to the command router, the reaction-role
// reconciler and the moderation notifier.
type Bot struct {
	client     *Client
	router     *command.Router
	reconciler *reactionrole.Reconciler
	notifier   *service.ModerationNotifier
	ctx        context.Context
}

func NewBot(client *Client, router *command.Router, reconciler *reactionrole.Reconciler, notifier *service.ModerationNotifier) *Bot {
	return &Bot{
		client:     client,
		router:     router,
		reconciler: reconciler,
		notifier:   notifier,
		ctx:        context.Background(),
	}
}

// Run connects to the gateway and serves events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	session := b.client.session

	removers := []func(){
		session.AddHandler(b.onReady),
		session.AddHandler(b.onMessageCreate),
		session.AddHandler(b.onReactionAdd),
		session.AddHandler(b.onReactionRemove),
		session.AddHandler(b.onMessageDelete),
		session.AddHandler(b.onMemberAdd),
	}
	defer func() {
		for _, remove := range removers {
			remove()
		}
	}()

	if err := session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	<-ctx.Done()

	log.Printf("[INFO] closing gateway connection")
	if err := session.Close(); err != nil {
		return fmt.Errorf("close gateway: %w", err)
	}
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] logged in as %s (%d guilds)", r.User.Username, len(r.Guilds))
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == b.client.SelfID() {
		return
	}
	if !strings.HasPrefix(strings.TrimSpace(m.Content), "!") {
		return
	}

	req := command.Request{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
	}
	if m.Member != nil && m.GuildID != "" {
		req.AuthorRoles = b.client.roleNames(b.ctx, m.GuildID, m.Member.Roles)
	}

	if err := b.router.Handle(b.ctx, req); err != nil {
		log.Printf("[ERROR] handle %q in channel %s: %v", m.Content, m.ChannelID, err)
	}
}

func (b *Bot) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	ev, ok := reactionEvent(r.MessageReaction, b.client.SelfID())
	if !ok {
		return
	}
	if err := b.reconciler.OnReactionAdded(b.ctx, ev); err != nil {
		log.Printf("[ERROR] reaction add on %s: %v", ev.MessageID, err)
	}
}

func (b *Bot) onReactionRemove(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
	ev, ok := reactionEvent(r.MessageReaction, b.client.SelfID())
	if !ok {
		return
	}
	if err := b.reconciler.OnReactionRemoved(b.ctx, ev); err != nil {
		log.Printf("[ERROR] reaction remove on %s: %v", ev.MessageID, err)
	}
}

func (b *Bot) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	if err := b.notifier.OnMessageDeleted(b.ctx, deletedMessage(m)); err != nil {
		log.Printf("[ERROR] message delete in %s: %v", m.ChannelID, err)
	}
}

func (b *Bot) onMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil {
		return
	}
	if err := b.notifier.OnMemberJoined(b.ctx, m.GuildID, m.User.ID); err != nil {
		log.Printf("[ERROR] member join in %s: %v", m.GuildID, err)
	}
}

// reactionEvent converts a gateway reaction. Reactions by the bot itself and
// outside guilds are dropped.
func reactionEvent(r *discordgo.MessageReaction, selfID string) (reactionrole.ReactionEvent, bool) {
	if r == nil || r.GuildID == "" || r.UserID == selfID {
		return reactionrole.ReactionEvent{}, false
	}
	return reactionrole.ReactionEvent{
		MessageID: r.MessageID,
		GuildID:   r.GuildID,
		UserID:    r.UserID,
		Emoji:     reactionrole.EmojiToken(r.Emoji.Name, r.Emoji.ID),
	}, true
}

func deletedMessage(m *discordgo.MessageDelete) service.DeletedMessage {
	msg := service.DeletedMessage{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
	}
	if m.BeforeDelete != nil {
		msg.Content = m.BeforeDelete.Content
		msg.Cached = true
	}
	return msg
}
