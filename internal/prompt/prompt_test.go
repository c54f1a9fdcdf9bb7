package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(channelID, userID, content string) *discordgo.Message {
	return &discordgo.Message{
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: userID},
	}
}

// awaitAsync starts Await in the background and waits until it is registered.
func awaitAsync(t *testing.T, p *Prompter, ctx context.Context, channelID, userID string) <-chan [2]interface{} {
	t.Helper()
	done := make(chan [2]interface{}, 1)
	go func() {
		answer, err := p.Await(ctx, channelID, userID)
		done <- [2]interface{}{answer, err}
	}()
	require.Eventually(t, func() bool { return p.Waiting(channelID, userID) }, time.Second, time.Millisecond)
	return done
}

func TestAwait_ReceivesAnswer(t *testing.T) {
	p := NewPrompter(time.Second)
	done := awaitAsync(t, p, context.Background(), "c1", "u1")

	assert.False(t, p.Deliver(message("c1", "someone-else", "Warzone")))
	assert.False(t, p.Deliver(message("c2", "u1", "Warzone")))
	assert.True(t, p.Deliver(message("c1", "u1", "  Warzone  ")))

	result := <-done
	assert.Equal(t, "Warzone", result[0])
	assert.Nil(t, result[1])
	assert.False(t, p.Waiting("c1", "u1"))
}

func TestAwait_Cancel(t *testing.T) {
	p := NewPrompter(time.Second)
	done := awaitAsync(t, p, context.Background(), "c1", "u1")

	require.True(t, p.Deliver(message("c1", "u1", "CANCEL")))

	result := <-done
	assert.Equal(t, "", result[0])
	assert.ErrorIs(t, result[1].(error), ErrCancelled)
}

func TestAwait_Timeout(t *testing.T) {
	p := NewPrompter(20 * time.Millisecond)

	_, err := p.Await(context.Background(), "c1", "u1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, p.Waiting("c1", "u1"))
}

func TestAwait_ContextCancelled(t *testing.T) {
	p := NewPrompter(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := awaitAsync(t, p, ctx, "c1", "u1")

	cancel()

	result := <-done
	assert.ErrorIs(t, result[1].(error), context.Canceled)
}

func TestAwait_OnePendingPerUser(t *testing.T) {
	p := NewPrompter(time.Second)
	done := awaitAsync(t, p, context.Background(), "c1", "u1")

	_, err := p.Await(context.Background(), "c1", "u1")
	assert.ErrorIs(t, err, ErrPending)

	require.True(t, p.Deliver(message("c1", "u1", "ok")))
	<-done
}

func TestDeliver_NoPrompt(t *testing.T) {
	p := NewPrompter(time.Second)
	assert.False(t, p.Deliver(message("c1", "u1", "hello")))
	assert.False(t, p.Deliver(nil))
	assert.False(t, p.Deliver(&discordgo.Message{ChannelID: "c1"}))
}
