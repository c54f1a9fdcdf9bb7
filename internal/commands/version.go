package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/internal/version"
	"github.com/latoulicious/hutbot/pkg/embed"
	"github.com/latoulicious/hutbot/pkg/textutil"
)

// NewVersionCommand reports build information
func NewVersionCommand() *Command {
	return &Command{
		Name:        "version",
		Aliases:     []string{"v"},
		Description: "Show the running build",
		Category:    "general",
		Run: func(c *Context) error {
			c.Logger.Info("Version command executed", c.Fields())

			info := version.Get()

			// Keep description tight; details go in fields.
			versionEmbed := embed.NewEmbedBuilder().Success("hutbot Version", textutil.InlineCode(info.String()))
			versionEmbed.Fields = []*discordgo.MessageEmbedField{
				embed.Field("Version", textutil.InlineCode(info.Version), true),
				embed.Field("Commit", textutil.InlineCode(info.ShortCommit()), true),
				embed.Field("Build Time", textutil.InlineCode(info.BuildTime), true),
				embed.Field("Go", textutil.InlineCode(info.GoVersion), true),
			}
			if info.Dirty {
				versionEmbed.Footer = &discordgo.MessageEmbedFooter{Text: "⚠️ dirty workspace at build time"}
			}

			// Prevent accidental mentions in responses.
			_, err := c.Session.ChannelMessageSendComplex(c.Message.ChannelID, &discordgo.MessageSend{
				Embeds: []*discordgo.MessageEmbed{versionEmbed},
				AllowedMentions: &discordgo.MessageAllowedMentions{
					Parse: []discordgo.AllowedMentionType{},
				},
			})
			if err != nil {
				return fmt.Errorf("failed to send version embed: %w", err)
			}
			return nil
		},
	}
}
