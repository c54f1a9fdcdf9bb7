package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*Context) error { return nil }

func TestRegistry_LookupByNameAndAlias(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Command{Name: "serverinfo", Aliases: []string{"server"}, Run: noop}))

	for _, name := range []string{"serverinfo", "SERVERINFO", "server", "Server"} {
		cmd, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "serverinfo", cmd.Name)
	}

	_, ok := r.Lookup("servers")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Command{Name: "serverinfo", Aliases: []string{"server"}, Run: noop}))

	assert.Error(t, r.Register(&Command{Name: "Server", Run: noop}))
	assert.Error(t, r.Register(&Command{Name: "other", Aliases: []string{"serverinfo"}, Run: noop}))
	assert.Error(t, r.Register(&Command{Name: "", Run: noop}))
	assert.Error(t, r.Register(&Command{Name: "norun"}))

	_, ok := r.Lookup("other")
	assert.False(t, ok, "a rejected command must not be partially registered")
}

func TestRegistry_CommandsSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		&Command{Name: "version", Category: "general", Run: noop},
		&Command{Name: "serverinfo", Aliases: []string{"server"}, Category: "info", Run: noop},
		&Command{Name: "about", Category: "general", Run: noop},
	)

	var names []string
	for _, cmd := range r.Commands() {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"about", "version", "serverinfo"}, names)
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.MustRegister(&Command{Name: "a", Run: noop}, &Command{Name: "a", Run: noop})
	})
}

func newTestContext(session Messenger, args ...string) *Context {
	return &Context{
		Ctx:     context.Background(),
		Session: session,
		Message: &discordgo.Message{
			ChannelID: "chan",
			GuildID:   "guild",
			Author:    &discordgo.User{ID: "u1", Username: "steve"},
		},
		Args:   args,
		Prefix: "!",
		Logger: &recordingLogger{},
	}
}

func helpRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(
		NewServerInfoCommand(ServerInfoOptions{}),
		NewVersionCommand(),
		NewAboutCommand(time.Now()),
	)
	r.MustRegister(NewHelpCommand(r))
	return r
}

func TestHelp_ListsCommandsByCategory(t *testing.T) {
	r := helpRegistry()
	session := &fakeMessenger{}
	help, _ := r.Lookup("help")

	require.NoError(t, help.Run(newTestContext(session)))

	require.Len(t, session.sent, 1)
	description := session.sent[0].Embeds[0].Description
	assert.True(t, strings.HasPrefix(description, "**General**\n"))
	assert.Contains(t, description, "• `!about` Show information about the bot")
	assert.Contains(t, description, "**Info**\n• `!serverinfo` Look up a Minehut server")
}

func TestHelp_CommandDetails(t *testing.T) {
	r := helpRegistry()
	session := &fakeMessenger{}
	help, _ := r.Lookup("help")

	require.NoError(t, help.Run(newTestContext(session, "server")))

	require.Len(t, session.sent, 1)
	details := session.sent[0].Embeds[0]
	assert.Equal(t, "Serverinfo", details.Title)
	assert.Equal(t, "Look up a Minehut server", details.Description)
	require.Len(t, details.Fields, 3)
	assert.Equal(t, "`!serverinfo <server>`", details.Fields[0].Value)
	assert.Equal(t, "`server`", details.Fields[1].Value)
	assert.Equal(t, "`!serverinfo Warzone`", details.Fields[2].Value)
}

func TestHelp_UnknownCommand(t *testing.T) {
	r := helpRegistry()
	session := &fakeMessenger{}
	help, _ := r.Lookup("help")

	require.NoError(t, help.Run(newTestContext(session, "dance")))

	require.Len(t, session.sent, 1)
	assert.Equal(t, "Unknown command", session.sent[0].Embeds[0].Title)
}

func TestAbout(t *testing.T) {
	session := &fakeMessenger{}
	require.NoError(t, NewAboutCommand(time.Now().Add(-90*time.Second)).Run(newTestContext(session)))

	require.Len(t, session.sent, 1)
	about := session.sent[0].Embeds[0]
	assert.Equal(t, "Bot Information", about.Title)

	values := map[string]string{}
	for _, f := range about.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "42ms", values["Ping"])
	assert.Equal(t, "1m 30s", values["Uptime"])
}

func TestVersion(t *testing.T) {
	session := &fakeMessenger{}
	require.NoError(t, NewVersionCommand().Run(newTestContext(session)))

	require.Len(t, session.sent, 1)
	assert.Equal(t, "hutbot Version", session.sent[0].Embeds[0].Title)
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5*time.Second))
	assert.Equal(t, "2m 3s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 0s", formatUptime(time.Hour))
	assert.Equal(t, "2d 3h 4m 5s", formatUptime(51*time.Hour+4*time.Minute+5*time.Second))
}
