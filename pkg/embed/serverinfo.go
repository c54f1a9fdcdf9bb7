package embed

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/pkg/minehut"
	"github.com/latoulicious/hutbot/pkg/textutil"
	"github.com/samber/lo"
)

// MaxPropertyLength is how many characters of a server property value are shown
const MaxPropertyLength = 50

// ServerInfoData is everything needed to describe one server
type ServerInfoData struct {
	Server    *minehut.Server
	Icon      *minehut.Icon
	Addons    []minehut.Addon
	Requester *discordgo.User
	Now       time.Time
}

// ServerInfo renders the server summary embed. Field order is stable.
func ServerInfo(data ServerInfoData) *discordgo.MessageEmbed {
	server := data.Server
	now := data.Now
	if now.IsZero() {
		now = time.Now()
	}

	visibility := "unlisted"
	if server.Visibility {
		visibility = "visible"
	}

	color := ColorRed
	if server.Online {
		color = ColorGreen
	}

	embed := &discordgo.MessageEmbed{
		Title:       textutil.Truncate(fmt.Sprintf("%s (%s)", server.Name, visibility), MaxTitleLength),
		Color:       color,
		Description: textutil.Truncate(textutil.CodeBlock(textutil.StripColourCodes(server.MOTD)), MaxDescriptionLength),
		Footer:      RequestedBy(data.Requester),
	}

	embed.Fields = append(embed.Fields,
		Field("Last Started", textutil.PrettyDate(server.LastOnline.Time, now), true),
		Field("Created At", textutil.PrettyDate(server.CreatedAt.Time, now), true),
	)

	if server.PlayerCount > 0 {
		embed.Fields = append(embed.Fields, Field("Player Count", fmt.Sprintf("%d / %d", server.PlayerCount, server.MaxPlayers), true))
	}

	embed.Fields = append(embed.Fields,
		Field("Suspended?", yesNo(server.Suspended), true),
		Field("Credits/day", strconv.FormatInt(roundHalfUp(server.CreditsPerDay), 10), true),
	)

	if data.Icon != nil {
		embed.Fields = append(embed.Fields, Field("Icon", data.Icon.DisplayName, true))
	}

	if len(server.Categories) > 0 {
		embed.Fields = append(embed.Fields, Field("Categories", textutil.Bullets(server.Categories), false))
	}

	if len(data.Addons) > 0 {
		lines := lo.Map(data.Addons, func(addon minehut.Addon, _ int) string {
			return AddonLine(addon)
		})
		embed.Fields = append(embed.Fields, Field("Installed Content", textutil.Bullets(lines), false))
	}

	embed.Fields = append(embed.Fields, Field("Server Properties", PropertiesText(server.Properties), true))

	return embed
}

// AddonLine renders "title (category)", leaving out the default category
func AddonLine(addon minehut.Addon) string {
	if addon.Category == minehut.DefaultAddonCategory {
		return addon.Title
	}
	return fmt.Sprintf("%s (%s)", addon.Title, addon.Category)
}

// PropertiesText renders one line per property in document order
func PropertiesText(props minehut.Properties) string {
	if len(props) == 0 {
		return "None"
	}

	lines := lo.Map(props, func(p minehut.Property, _ int) string {
		return fmt.Sprintf("⋆ **%s**: %s", textutil.StartCase(p.Key), PropertyValue(p.Value))
	})
	return strings.Join(lines, "\n")
}

// PropertyValue renders booleans as Yes/No and everything else as truncated
// inline code. Empty values are left bare.
func PropertyValue(value interface{}) string {
	if b, ok := value.(bool); ok {
		return yesNo(b)
	}

	text := stringify(value)
	truncated := textutil.Truncate(text, MaxPropertyLength)
	if text == "" {
		return truncated
	}
	return textutil.InlineCode(truncated)
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case json.RawMessage:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// roundHalfUp rounds .5 towards positive infinity
func roundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}
