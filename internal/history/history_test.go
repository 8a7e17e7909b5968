package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/agentkit-go/agentkit"
)

func TestNewFromCopies(t *testing.T) {
	seed := []ai.Message{ai.UserMessage("hello")}
	h := NewFrom(seed)

	seed[0] = ai.UserMessage("mutated")
	msgs := h.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text())
}

func TestAppendAndLast(t *testing.T) {
	h := New()
	assert.Equal(t, 0, h.Len())

	_, ok := h.Last()
	assert.False(t, ok)

	h.Append(ai.UserMessage("one"), ai.AssistantMessage("two"))
	assert.Equal(t, 2, h.Len())

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, ai.RoleAssistant, last.Role)
	assert.Equal(t, "two", last.Text())
}

func TestMessagesReturnsCopy(t *testing.T) {
	h := NewFrom([]ai.Message{ai.UserMessage("original")})

	msgs := h.Messages()
	msgs[0] = ai.UserMessage("mutated")

	fresh := h.Messages()
	assert.Equal(t, "original", fresh[0].Text())
}

func TestConcurrentAppend(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(ai.UserMessage("msg"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())
}
