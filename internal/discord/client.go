package discord

import (
	"context"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"statbot/internal/command"
	"statbot/internal/model"
	"statbot/internal/reactionrole"
)

const (
	// Intents are the gateway events the bot subscribes to.
	Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentMessageContent

	messageCacheSize = 1000

	readHistory = discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory
)

// Client adapts a discordgo session to the transports the services use.
type Client struct {
	session *discordgo.Session
}

// NewClient creates a bot session for token. The gateway is not opened.
func NewClient(token string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.State.MaxMessageCount = messageCacheSize
	return &Client{session: session}, nil
}

// SelfID returns the bot's user id once the session is ready.
func (c *Client) SelfID() string {
	if c.session.State == nil || c.session.State.User == nil {
		return ""
	}
	return c.session.State.User.ID
}

func (c *Client) CanReadHistory(ctx context.Context, channel model.Channel) bool {
	perms, err := c.session.State.UserChannelPermissions(c.SelfID(), channel.ID)
	if err != nil {
		perms, err = c.session.UserChannelPermissions(c.SelfID(), channel.ID, discordgo.WithContext(ctx))
		if err != nil {
			return false
		}
	}
	return perms&readHistory == readHistory
}

func (c *Client) GuildTextChannels(ctx context.Context, guildID string) ([]model.Channel, error) {
	var channels []*discordgo.Channel
	if guild, err := c.session.State.Guild(guildID); err == nil && len(guild.Channels) > 0 {
		channels = guild.Channels
	} else {
		channels, err = c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list channels: %w", err)
		}
	}
	return textChannels(guildID, channels), nil
}

func textChannels(guildID string, channels []*discordgo.Channel) []model.Channel {
	text := make([]*discordgo.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			text = append(text, ch)
		}
	}
	sort.SliceStable(text, func(i, j int) bool { return text[i].Position < text[j].Position })

	out := make([]model.Channel, 0, len(text))
	for _, ch := range text {
		out = append(out, model.Channel{ID: ch.ID, GuildID: guildID, Name: ch.Name})
	}
	return out
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	if _, err := c.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (model.Message, error) {
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return model.Message{}, fmt.Errorf("fetch message: %w", err)
	}
	return toMessage(msg), nil
}

// AddReaction reacts with a binding token, see reactionrole.EmojiToken.
func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	err := c.session.MessageReactionAdd(channelID, messageID, reactionrole.ReactionAPIName(emoji), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("add reaction %s: %w", emoji, err)
	}
	return nil
}

func (c *Client) Typing(ctx context.Context, channelID string) error {
	return c.session.ChannelTyping(channelID, discordgo.WithContext(ctx))
}

func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	var roles []*discordgo.Role
	if guild, err := c.session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		roles = guild.Roles
	} else {
		roles, err = c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list roles: %w", err)
		}
	}

	out := make([]model.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, model.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (c *Client) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	member, err := c.session.State.Member(guildID, userID)
	if err != nil {
		member, err = c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch member: %w", err)
		}
	}
	return member.Roles, nil
}

func (c *Client) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add role %s: %w", roleID, err)
	}
	return nil
}

func (c *Client) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove role %s: %w", roleID, err)
	}
	return nil
}

// Guilds lists the guilds the session has joined.
func (c *Client) Guilds(context.Context) ([]string, error) {
	c.session.State.RLock()
	defer c.session.State.RUnlock()

	ids := make([]string, 0, len(c.session.State.Guilds))
	for _, g := range c.session.State.Guilds {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	for _, chunk := range command.SplitMessage(content, command.MaxMessageLength) {
		if _, err := c.session.ChannelMessageSend(ch.ID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send dm: %w", err)
		}
	}
	return nil
}

// roleNames maps the role ids of a member to role names.
func (c *Client) roleNames(ctx context.Context, guildID string, roleIDs []string) []string {
	if len(roleIDs) == 0 {
		return nil
	}
	roles, err := c.GuildRoles(ctx, guildID)
	if err != nil {
		return nil
	}
	return namesOf(roles, roleIDs)
}

func namesOf(roles []model.Role, ids []string) []string {
	byID := make(map[string]string, len(roles))
	for _, r := range roles {
		byID[r.ID] = r.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func toMessage(m *discordgo.Message) model.Message {
	msg := model.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		CreatedAt: m.Timestamp.UTC(),
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorIsBot = m.Author.Bot
		msg.AuthorName = displayName(m.Author, m.Member)
	}
	return msg
}

func displayName(u *discordgo.User, member *discordgo.Member) string {
	switch {
	case member != nil && member.Nick != "":
		return member.Nick
	case u.GlobalName != "":
		return u.GlobalName
	default:
		return u.Username
	}
}
