package model

import (
	"fmt"
	"time"
)

// Message is a single chat message as seen by the aggregation pipeline.
type Message struct {
	ID          string
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
	CreatedAt   time.Time
}

// Channel is a guild text channel.
type Channel struct {
	ID      string
	GuildID string
	Name    string
}

// Mention returns the chat markup that renders as a link to the channel.
func (c Channel) Mention() string {
	return ChannelMention(c.ID)
}

// ChannelMention formats a channel id as a mention.
func ChannelMention(id string) string {
	return fmt.Sprintf("<#%s>", id)
}

// UserMention formats a user id as a mention.
func UserMention(id string) string {
	return fmt.Sprintf("<@%s>", id)
}

// RoleMention formats a role id as a mention.
func RoleMention(id string) string {
	return fmt.Sprintf("<@&%s>", id)
}

// Role is a guild role.
type Role struct {
	ID   string
	Name string
}
