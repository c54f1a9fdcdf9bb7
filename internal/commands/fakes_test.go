package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/pkg/logging"
	"github.com/latoulicious/hutbot/pkg/minehut"
	"github.com/stretchr/testify/mock"
)

// fakeMessenger records every message sent or edited
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []*discordgo.Message
	edits   []*discordgo.MessageEdit
	sendErr error
	editErr error
}

func (f *fakeMessenger) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.record(&discordgo.Message{ChannelID: channelID, Content: content})
}

func (f *fakeMessenger) ChannelMessageSendEmbed(channelID string, e *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.record(&discordgo.Message{ChannelID: channelID, Embeds: []*discordgo.MessageEmbed{e}})
}

func (f *fakeMessenger) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.record(&discordgo.Message{ChannelID: channelID, Content: data.Content, Embeds: data.Embeds})
}

func (f *fakeMessenger) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *fakeMessenger) HeartbeatLatency() time.Duration {
	return 42 * time.Millisecond
}

func (f *fakeMessenger) record(msg *discordgo.Message) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	msg.ID = fmt.Sprintf("msg-%d", len(f.sent)+1)
	f.sent = append(f.sent, msg)
	return msg, nil
}

func (f *fakeMessenger) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, msg := range f.sent {
		out[i] = msg.Content
	}
	return out
}

// mockLookup is a testify mock of ServerLookup
type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) GetServer(ctx context.Context, name string) (*minehut.Server, error) {
	args := m.Called(ctx, name)
	server, _ := args.Get(0).(*minehut.Server)
	return server, args.Error(1)
}

func (m *mockLookup) ActiveIcon(ctx context.Context, server *minehut.Server) (*minehut.Icon, error) {
	args := m.Called(ctx, server)
	icon, _ := args.Get(0).(*minehut.Icon)
	return icon, args.Error(1)
}

func (m *mockLookup) InstalledContent(ctx context.Context, server *minehut.Server) ([]minehut.Addon, error) {
	args := m.Called(ctx, server)
	addons, _ := args.Get(0).([]minehut.Addon)
	return addons, args.Error(1)
}

// scriptedPrompter answers prompts from a fixed list
type scriptedPrompter struct {
	answers []string
	errs    []error
	calls   int
}

func (p *scriptedPrompter) Await(_ context.Context, _, _ string) (string, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.answers) {
		return p.answers[i], nil
	}
	return "", nil
}

type lookupRecord struct {
	result string
	took   time.Duration
}

type recordingObserver struct {
	lookups []lookupRecord
}

func (r *recordingObserver) ObserveLookup(result string, took time.Duration) {
	r.lookups = append(r.lookups, lookupRecord{result: result, took: took})
}

type capturedError struct {
	err  error
	tags map[string]string
}

type recordingReporter struct {
	captured []capturedError
}

func (r *recordingReporter) Capture(err error, tags map[string]string) {
	r.captured = append(r.captured, capturedError{err: err, tags: tags})
}

type logCall struct {
	level  string
	msg    string
	err    error
	fields map[string]interface{}
}

// recordingLogger keeps every call for assertions
type recordingLogger struct {
	mu    sync.Mutex
	calls []logCall
}

func (l *recordingLogger) add(call logCall) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.add(logCall{level: "INFO", msg: msg, fields: fields})
}

func (l *recordingLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.add(logCall{level: "ERROR", msg: msg, err: err, fields: fields})
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.add(logCall{level: "WARN", msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.add(logCall{level: "DEBUG", msg: msg, fields: fields})
}

func (l *recordingLogger) WithPipeline(string) logging.Logger { return l }

func (l *recordingLogger) WithContext(map[string]interface{}) logging.Logger { return l }

func (l *recordingLogger) byLevel(level string) []logCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logCall
	for _, call := range l.calls {
		if call.level == level {
			out = append(out, call)
		}
	}
	return out
}
