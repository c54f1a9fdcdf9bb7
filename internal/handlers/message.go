// Package handlers turns Discord gateway events into command invocations.
package handlers

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/internal/commands"
	"github.com/latoulicious/hutbot/pkg/embed"
	"github.com/latoulicious/hutbot/pkg/logging"
)

// AnswerSink receives messages that may answer an open prompt
type AnswerSink interface {
	Deliver(msg *discordgo.Message) bool
}

// CommandObserver counts dispatched commands
type CommandObserver interface {
	ObserveCommand(command string)
}

// Options configures a MessageHandler
type Options struct {
	Context  context.Context
	Registry *commands.Registry
	Prefix   string
	Prompts  AnswerSink
	Loggers  logging.LoggerFactory
	Metrics  CommandObserver
}

// MessageHandler dispatches prefix commands from MessageCreate events
type MessageHandler struct {
	ctx      context.Context
	registry *commands.Registry
	prefix   string
	prompts  AnswerSink
	loggers  logging.LoggerFactory
	metrics  CommandObserver
	embeds   embed.EmbedBuilder
}

// NewMessageHandler creates a MessageHandler. Commands run with opts.Context so
// they stop waiting once the bot shuts down.
func NewMessageHandler(opts Options) *MessageHandler {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Loggers == nil {
		opts.Loggers = logging.GetGlobalLoggerFactory()
	}
	return &MessageHandler{
		ctx:      opts.Context,
		registry: opts.Registry,
		prefix:   opts.Prefix,
		prompts:  opts.Prompts,
		loggers:  opts.Loggers,
		metrics:  opts.Metrics,
		embeds:   embed.NewEmbedBuilder(),
	}
}

// Handle is registered with discordgo's AddHandler
func (h *MessageHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	var selfID string
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	h.HandleMessage(s, selfID, m.Message)
}

// HandleMessage processes one message. selfID is the bot's own user ID.
func (h *MessageHandler) HandleMessage(session commands.Messenger, selfID string, msg *discordgo.Message) {
	if msg == nil || msg.Author == nil {
		return
	}
	// Ignore the bot itself, other bots and webhooks.
	if msg.Author.ID == selfID || msg.Author.Bot || msg.WebhookID != "" {
		return
	}

	if h.prompts != nil && h.prompts.Deliver(msg) {
		return
	}

	name, args, ok := h.parse(msg.Content)
	if !ok {
		return
	}
	cmd, ok := h.registry.Lookup(name)
	if !ok {
		return
	}

	logger := h.loggers.CreateCommandLogger(cmd.Name)
	if cl, ok := logger.(*logging.CommandLogger); ok {
		logger = cl.WithInteraction(msg.GuildID, msg.Author.ID, msg.ChannelID)
	}

	if h.metrics != nil {
		h.metrics.ObserveCommand(cmd.Name)
	}

	h.run(cmd, &commands.Context{
		Ctx:     h.ctx,
		Session: session,
		Message: msg,
		Args:    args,
		Prefix:  h.prefix,
		Logger:  logger,
	})
}

// parse splits "<prefix><name> args..." into the command name and its arguments
func (h *MessageHandler) parse(content string) (string, []string, bool) {
	if h.prefix == "" || !strings.HasPrefix(content, h.prefix) {
		return "", nil, false
	}
	tokens := strings.Fields(content[len(h.prefix):])
	if len(tokens) == 0 {
		return "", nil, false
	}
	return tokens[0], tokens[1:], true
}

func (h *MessageHandler) run(cmd *commands.Command, c *commands.Context) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			c.Logger.Error("Command panicked", err, map[string]interface{}{
				"stack": string(debug.Stack()),
			})
			h.reportFailure(cmd, c, err)
		}
	}()

	if err := cmd.Run(c); err != nil {
		c.Logger.Error("Command failed", err, c.Fields())
		h.reportFailure(cmd, c, err)
	}
}

func (h *MessageHandler) reportFailure(cmd *commands.Command, c *commands.Context, err error) {
	if _, sendErr := c.ReplyEmbed(h.embeds.CommandError(cmd.Name, err)); sendErr != nil {
		c.Logger.Warn("Failed to send command error", map[string]interface{}{
			"error": sendErr.Error(),
		})
	}
}
