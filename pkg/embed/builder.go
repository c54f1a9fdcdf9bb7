package embed

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/pkg/textutil"
)

// Palette
const (
	ColorGreen   = 0x57F287
	ColorRed     = 0xED4245
	ColorBlurple = 0x5865F2
	ColorYellow  = 0xFEE75C
)

// Discord embed limits, counted in characters
const (
	MaxTitleLength       = 256
	MaxDescriptionLength = 4096
	MaxFieldNameLength   = 256
	MaxFieldValueLength  = 1024
	MaxFooterLength      = 2048
)

// DefaultEmbeds implements EmbedBuilder with the bot palette
type DefaultEmbeds struct {
	now func() time.Time
}

// NewEmbedBuilder creates a new DefaultEmbeds instance
func NewEmbedBuilder() EmbedBuilder {
	return &DefaultEmbeds{now: time.Now}
}

// Success creates a success embed
func (d *DefaultEmbeds) Success(title, description string) *discordgo.MessageEmbed {
	return d.build(title, description, ColorGreen)
}

// Error creates an error embed
func (d *DefaultEmbeds) Error(title, description string) *discordgo.MessageEmbed {
	return d.build(title, description, ColorRed)
}

// Info creates an info embed
func (d *DefaultEmbeds) Info(title, description string) *discordgo.MessageEmbed {
	return d.build(title, description, ColorBlurple)
}

// Warning creates a warning embed
func (d *DefaultEmbeds) Warning(title, description string) *discordgo.MessageEmbed {
	return d.build(title, description, ColorYellow)
}

func (d *DefaultEmbeds) build(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       textutil.Truncate(title, MaxTitleLength),
		Description: textutil.Truncate(description, MaxDescriptionLength),
		Color:       color,
		Timestamp:   d.now().Format(time.RFC3339),
	}
}

// CommandError creates an embed for command execution errors
func (d *DefaultEmbeds) CommandError(command string, err error) *discordgo.MessageEmbed {
	embed := d.Error(fmt.Sprintf("❌ Command Error: %s", command), "An error occurred while executing the command.")
	if err != nil {
		embed.Fields = []*discordgo.MessageEmbedField{
			Field("Error Details", err.Error(), false),
		}
	}
	return embed
}

// Field builds an embed field, clamping name and value to the Discord limits
func Field(name, value string, inline bool) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name:   textutil.Truncate(name, MaxFieldNameLength),
		Value:  textutil.Truncate(value, MaxFieldValueLength),
		Inline: inline,
	}
}

// RequestedBy builds the footer crediting the user who ran a command
func RequestedBy(user *discordgo.User) *discordgo.MessageEmbedFooter {
	if user == nil {
		return nil
	}
	return &discordgo.MessageEmbedFooter{
		Text:    textutil.Truncate("Requested by "+UserTag(user), MaxFooterLength),
		IconURL: user.AvatarURL(""),
	}
}

// UserTag renders name#discriminator, or just the username for accounts on the
// new username system
func UserTag(user *discordgo.User) string {
	if user.Discriminator == "" || user.Discriminator == "0" {
		return user.Username
	}
	return user.Username + "#" + user.Discriminator
}
