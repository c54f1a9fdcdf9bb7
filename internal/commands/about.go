package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/internal/version"
	"github.com/latoulicious/hutbot/pkg/embed"
	"github.com/latoulicious/hutbot/pkg/textutil"
)

const repositoryURL = "https://github.com/latoulicious/hutbot"

// NewAboutCommand reports bot and runtime details. Uptime counts from started.
func NewAboutCommand(started time.Time) *Command {
	return &Command{
		Name:        "about",
		Aliases:     []string{"info", "stats"},
		Description: "Show information about the bot",
		Category:    "general",
		Run: func(c *Context) error {
			c.Logger.Info("About command executed", c.Fields())

			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)

			info := version.Get()
			buildTime := info.BuildTime
			if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
				buildTime = t.UTC().Format("02 Jan 2006 15:04 UTC")
			}

			about := embed.NewEmbedBuilder().Info("Bot Information", "Looks up Minehut servers from Discord.")
			about.Footer = embed.RequestedBy(c.Message.Author)
			about.Fields = []*discordgo.MessageEmbedField{
				embed.Field("Version", textutil.InlineCode(info.Version), true),
				embed.Field("Commit", fmt.Sprintf("[%s](%s/commit/%s)", info.ShortCommit(), repositoryURL, info.GitCommit), true),
				embed.Field("Repository", fmt.Sprintf("[GitHub](%s)", repositoryURL), true),
				embed.Field("Uptime", formatUptime(time.Since(started)), true),
				embed.Field("Memory Usage", fmt.Sprintf("%.2f MB", float64(memStats.Alloc)/1024/1024), true),
				embed.Field("Goroutines", fmt.Sprintf("%d", runtime.NumGoroutine()), true),
				embed.Field("Go Version", runtime.Version(), true),
				embed.Field("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH), true),
				embed.Field("Build Time", buildTime, true),
				embed.Field("Ping", fmt.Sprintf("%dms", c.Session.HeartbeatLatency().Milliseconds()), true),
			}

			if _, err := c.ReplyEmbed(about); err != nil {
				return fmt.Errorf("failed to send about embed: %w", err)
			}
			return nil
		},
	}
}

// formatUptime formats the uptime duration into a human-readable string
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
