package commands

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/pkg/logging"
)

// Messenger is the part of *discordgo.Session the commands talk to
type Messenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	HeartbeatLatency() time.Duration
}

// Context carries everything a command needs for one invocation
type Context struct {
	Ctx     context.Context
	Session Messenger
	Message *discordgo.Message
	Args    []string
	Prefix  string
	Logger  logging.Logger
}

// Reply sends a plain message to the invoking channel
func (c *Context) Reply(content string) (*discordgo.Message, error) {
	return c.Session.ChannelMessageSend(c.Message.ChannelID, content)
}

// ReplyEmbed sends an embed to the invoking channel
func (c *Context) ReplyEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, embed)
}

// Fields returns the log fields identifying the invocation
func (c *Context) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"guild_id":   c.Message.GuildID,
		"channel_id": c.Message.ChannelID,
		"args_count": len(c.Args),
	}
	if c.Message.Author != nil {
		fields["user_id"] = c.Message.Author.ID
		fields["username"] = c.Message.Author.Username
	}
	return fields
}

// Command describes a prefix command
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Examples    []string
	Category    string
	Run         func(c *Context) error
}
