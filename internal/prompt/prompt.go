// Package prompt lets a command wait for the next message a user sends in a
// channel. The message handler feeds every incoming message to Deliver before
// dispatching commands.
package prompt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CancelWord ends a prompt without an answer
const CancelWord = "cancel"

var (
	// ErrTimeout is returned when no answer arrives in time
	ErrTimeout = errors.New("prompt: timed out waiting for an answer")
	// ErrCancelled is returned when the user answers with the cancel word
	ErrCancelled = errors.New("prompt: cancelled")
	// ErrPending is returned when the user already has an open prompt in the channel
	ErrPending = errors.New("prompt: another prompt is already waiting for this user")
)

type key struct {
	channelID string
	userID    string
}

// Prompter tracks at most one pending answer per channel and user
type Prompter struct {
	timeout time.Duration

	mu      sync.Mutex
	pending map[key]chan *discordgo.Message
}

// NewPrompter creates a Prompter whose Await gives up after timeout
func NewPrompter(timeout time.Duration) *Prompter {
	return &Prompter{
		timeout: timeout,
		pending: make(map[key]chan *discordgo.Message),
	}
}

// Await blocks until userID posts a message in channelID, the timeout passes or
// ctx is done. The answer is trimmed; "cancel" yields ErrCancelled.
func (p *Prompter) Await(ctx context.Context, channelID, userID string) (string, error) {
	k := key{channelID: channelID, userID: userID}
	answers := make(chan *discordgo.Message, 1)

	p.mu.Lock()
	if _, exists := p.pending[k]; exists {
		p.mu.Unlock()
		return "", ErrPending
	}
	p.pending[k] = answers
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, k)
		p.mu.Unlock()
	}()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case msg := <-answers:
		answer := strings.TrimSpace(msg.Content)
		if strings.EqualFold(answer, CancelWord) {
			return "", ErrCancelled
		}
		return answer, nil
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Deliver hands msg to a waiting prompt. It reports whether the message was
// consumed.
func (p *Prompter) Deliver(msg *discordgo.Message) bool {
	if msg == nil || msg.Author == nil {
		return false
	}

	k := key{channelID: msg.ChannelID, userID: msg.Author.ID}

	p.mu.Lock()
	defer p.mu.Unlock()

	answers, ok := p.pending[k]
	if !ok {
		return false
	}

	select {
	case answers <- msg:
		delete(p.pending, k)
		return true
	default:
		return false
	}
}

// Waiting reports whether a prompt is open for the user in the channel
func (p *Prompter) Waiting(channelID, userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[key{channelID: channelID, userID: userID}]
	return ok
}
