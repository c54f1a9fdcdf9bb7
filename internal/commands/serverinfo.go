package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/internal/prompt"
	"github.com/latoulicious/hutbot/pkg/embed"
	"github.com/latoulicious/hutbot/pkg/metrics"
	"github.com/latoulicious/hutbot/pkg/minehut"
)

// ServerLookup fetches the data rendered by the serverinfo command
type ServerLookup interface {
	GetServer(ctx context.Context, name string) (*minehut.Server, error)
	ActiveIcon(ctx context.Context, server *minehut.Server) (*minehut.Icon, error)
	InstalledContent(ctx context.Context, server *minehut.Server) ([]minehut.Addon, error)
}

// Prompter waits for a user's next message in a channel
type Prompter interface {
	Await(ctx context.Context, channelID, userID string) (string, error)
}

// LookupObserver records the outcome of each lookup
type LookupObserver interface {
	ObserveLookup(result string, took time.Duration)
}

// ErrorReporter forwards failures to an error tracker
type ErrorReporter interface {
	Capture(err error, tags map[string]string)
}

// ServerInfoOptions wires the serverinfo command
type ServerInfoOptions struct {
	Lookup       ServerLookup
	Prompter     Prompter
	LoadingEmoji string
	CrossEmoji   string
	Development  bool
	Metrics      LookupObserver
	Reporter     ErrorReporter
	Now          func() time.Time
}

type serverInfo struct {
	ServerInfoOptions
}

// NewServerInfoCommand builds the serverinfo command
func NewServerInfoCommand(opts ServerInfoOptions) *Command {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &serverInfo{ServerInfoOptions: opts}

	return &Command{
		Name:        "serverinfo",
		Aliases:     []string{"server"},
		Description: "Look up a Minehut server",
		Usage:       "<server>",
		Examples:    []string{"Warzone"},
		Category:    "info",
		Run:         s.run,
	}
}

func (s *serverInfo) run(c *Context) error {
	name := strings.TrimSpace(strings.Join(c.Args, " "))
	if name == "" {
		answer, err := s.askServerName(c)
		if err != nil {
			return s.endPrompt(c, err)
		}
		name = answer
	}

	c.Logger.Info("Looking up server", map[string]interface{}{
		"server": name,
	})

	placeholder, err := c.Reply(fmt.Sprintf("%s fetching server **%s**", s.LoadingEmoji, name))
	if err != nil {
		return fmt.Errorf("failed to send loading message: %w", err)
	}

	started := s.Now()
	err = s.lookup(c, placeholder, name)
	took := s.Now().Sub(started)

	if err == nil {
		s.observe(metrics.ResultSuccess, took)
		return nil
	}

	s.observe(metrics.ResultFailure, took)
	if s.Development {
		c.Logger.Error("Failed to fetch server", err, map[string]interface{}{
			"server": name,
		})
	}
	if s.Reporter != nil {
		s.Reporter.Capture(err, map[string]string{
			"command": "serverinfo",
			"server":  name,
		})
	}

	if _, editErr := s.edit(c, placeholder, fmt.Sprintf("%s could not fetch server", s.CrossEmoji), nil); editErr != nil {
		return fmt.Errorf("failed to report lookup failure: %w", editErr)
	}
	return nil
}

// lookup fetches the server and its extras, then swaps the placeholder for the
// embed. Every error is left to the caller's single failure path.
func (s *serverInfo) lookup(c *Context, placeholder *discordgo.Message, name string) error {
	server, err := s.Lookup.GetServer(c.Ctx, name)
	if err != nil {
		return err
	}

	icon, err := s.Lookup.ActiveIcon(c.Ctx, server)
	if err != nil {
		return err
	}

	addons, err := s.Lookup.InstalledContent(c.Ctx, server)
	if err != nil {
		return err
	}

	info := embed.ServerInfo(embed.ServerInfoData{
		Server:    server,
		Icon:      icon,
		Addons:    addons,
		Requester: c.Message.Author,
		Now:       s.Now(),
	})

	_, err = s.edit(c, placeholder, "", []*discordgo.MessageEmbed{info})
	return err
}

func (s *serverInfo) edit(c *Context, msg *discordgo.Message, content string, embeds []*discordgo.MessageEmbed) (*discordgo.Message, error) {
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	return c.Session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      msg.ID,
		Channel: msg.ChannelID,
		Content: &content,
		Embeds:  &embeds,
	})
}

// askServerName prompts for the server name, retrying once on an empty answer
func (s *serverInfo) askServerName(c *Context) (string, error) {
	if s.Prompter == nil {
		return "", errNoAnswer
	}

	mention := c.Message.Author.Mention()
	question := fmt.Sprintf("%s, what server would you like to look up?", mention)

	for attempt := 0; attempt < 2; attempt++ {
		if _, err := c.Reply(question); err != nil {
			return "", fmt.Errorf("failed to send prompt: %w", err)
		}

		answer, err := s.Prompter.Await(c.Ctx, c.Message.ChannelID, c.Message.Author.ID)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		question = fmt.Sprintf("%s, please provide a server name.", mention)
	}
	return "", errNoAnswer
}

var errNoAnswer = errors.New("no server name given")

// endPrompt tells the user why the command stopped without a lookup
func (s *serverInfo) endPrompt(c *Context, err error) error {
	mention := c.Message.Author.Mention()

	var notice string
	switch {
	case errors.Is(err, prompt.ErrCancelled):
		notice = fmt.Sprintf("%s, the command has been cancelled.", mention)
	case errors.Is(err, prompt.ErrTimeout):
		notice = fmt.Sprintf("%s, time ran out, command has been cancelled.", mention)
	case errors.Is(err, errNoAnswer):
		notice = fmt.Sprintf("%s, more tries than allowed were used, command has been cancelled.", mention)
	case errors.Is(err, prompt.ErrPending):
		notice = fmt.Sprintf("%s, finish answering your previous question first.", mention)
	default:
		return err
	}

	s.observe(metrics.ResultCancelled, 0)
	c.Logger.Info("Server lookup ended without a name", map[string]interface{}{
		"reason": err.Error(),
	})

	if _, sendErr := c.Reply(notice); sendErr != nil {
		return fmt.Errorf("failed to send prompt notice: %w", sendErr)
	}
	return nil
}

func (s *serverInfo) observe(result string, took time.Duration) {
	if s.Metrics != nil {
		s.Metrics.ObserveLookup(result, took)
	}
}
