package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"luna_chat/src/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	mu       sync.Mutex
	reply    string
	err      error
	delay    time.Duration
	received []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.received = input
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) messages() []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.received
}

func TestResponder_Complete(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatModel{reply: "  \"Hola, {user}... te estaba esperando.\"  "}
	r, err := NewResponder(ctx, fake, WithModelName("llama-3.1-8b-instant"))
	require.NoError(t, err)

	history := []*schema.Message{
		schema.UserMessage("antes"),
		schema.AssistantMessage("respuesta", nil),
	}
	reply, err := r.Complete(ctx, "Eres Luna {no es variable}", history, "hola {x}")
	require.NoError(t, err)
	assert.Equal(t, "Hola, {user}... te estaba esperando.", reply)
	assert.Equal(t, "llama-3.1-8b-instant", r.ModelName())

	got := fake.messages()
	require.Len(t, got, 4)
	assert.Equal(t, schema.System, got[0].Role)
	assert.Equal(t, "Eres Luna {no es variable}", got[0].Content)
	assert.Equal(t, "antes", got[1].Content)
	assert.Equal(t, schema.Assistant, got[2].Role)
	assert.Equal(t, schema.User, got[3].Role)
	assert.Equal(t, "hola {x}", got[3].Content)
}

func TestResponder_NoHistory(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatModel{reply: "hola"}
	r, err := NewResponder(ctx, fake)
	require.NoError(t, err)

	_, err = r.Complete(ctx, "sistema", nil, "hola")
	require.NoError(t, err)
	assert.Len(t, fake.messages(), 2)
}

func TestResponder_RemoteFailure(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, &fakeChatModel{err: errors.New("status 503")}, WithModelName("m"))
	require.NoError(t, err)

	_, err = r.Complete(ctx, "s", nil, "hola")
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "m", remote.Model)
	assert.Contains(t, err.Error(), "status 503")
}

func TestResponder_EmptyReply(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, &fakeChatModel{reply: "<think>hmm</think>   "})
	require.NoError(t, err)

	_, err = r.Complete(ctx, "s", nil, "hola")
	assert.True(t, errors.Is(err, ErrEmptyReply))
}

func TestResponder_Timeout(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, &fakeChatModel{reply: "tarde", delay: 300 * time.Millisecond}, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = r.Complete(ctx, "s", nil, "hola")
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestResponder_RateLimit(t *testing.T) {
	ctx := context.Background()
	r, err := NewResponder(ctx, &fakeChatModel{reply: "ok"}, WithRatePerMinute(2))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := r.Complete(ctx, "s", nil, "hola")
		require.NoError(t, err)
	}

	_, err = r.Complete(ctx, "s", nil, "hola")
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"think block", "<think>\nrazonando\n</think>\nHola.", "Hola."},
		{"double quotes", `"Hola"`, "Hola"},
		{"curly quotes", "“Hola”", "Hola"},
		{"guillemets", "«Hola»", "Hola"},
		{"inner quotes kept", `Dijo "hola" y se fue`, `Dijo "hola" y se fue`},
		{"only quotes", `""`, `""`},
		{"spaces", "  hola  ", "hola"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanReply(tt.in))
		})
	}

	long := CleanReply(strings.Repeat("ñ", 3000))
	assert.Equal(t, maxReplyRunes+3, len([]rune(long)))
}

func TestNewChatModel_UnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), model.LLMConfig{Provider: "skynet"})
	assert.Error(t, err)
}

func TestNewChatModel_OpenAICompatible(t *testing.T) {
	m, err := NewChatModel(context.Background(), model.LLMConfig{
		Provider:    "openai",
		APIKey:      "test",
		BaseURL:     "http://127.0.0.1:1/v1",
		Model:       "llama-3.1-8b-instant",
		MaxTokens:   600,
		Temperature: 0.8,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	assert.NotNil(t, m)
}
