package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luna_chat/src/logger"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// Completer produces a reply for a message given a system prompt and history.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []*schema.Message, message string) (string, error)
}

// Responder runs the ChatTemplate -> ChatModel chain with a hard timeout and
// an optional rate limit.
type Responder struct {
	chain     compose.Runnable[map[string]any, *schema.Message]
	limiter   *rate.Limiter
	timeout   time.Duration
	modelName string
}

type Option func(*Responder)

// WithTimeout bounds each call. Values <= 0 keep the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Responder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRatePerMinute allows n calls per minute with a burst of n. n <= 0 disables the limit.
func WithRatePerMinute(n int) Option {
	return func(r *Responder) {
		if n <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

func WithModelName(name string) Option {
	return func(r *Responder) { r.modelName = name }
}

func NewResponder(ctx context.Context, chatModel einomodel.BaseChatModel, opts ...Option) (*Responder, error) {
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createChatTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error compiling chat chain: %w", err)
	}

	r := &Responder{chain: chain, timeout: defaultTimeout, modelName: "unknown"}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Responder) ModelName() string {
	return r.modelName
}

type invokeResult struct {
	msg *schema.Message
	err error
}

// Complete calls the model once. Every failure is a *RemoteError.
func (r *Responder) Complete(ctx context.Context, systemPrompt string, history []*schema.Message, message string) (string, error) {
	if r.limiter != nil && !r.limiter.Allow() {
		return "", &RemoteError{Model: r.modelName, Err: ErrRateLimited}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan invokeResult, 1)
	go func() {
		msg, err := r.chain.Invoke(callCtx, templateVariables(systemPrompt, history, message))
		done <- invokeResult{msg: msg, err: err}
	}()

	var res invokeResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = invokeResult{err: callCtx.Err()}
	}

	logger.Debug().
		Str("model", r.modelName).
		Int("system_len", len(systemPrompt)).
		Int("history", len(history)).
		Dur("elapsed", time.Since(start)).
		Msg("LLM call finished")

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &RemoteError{Model: r.modelName, Err: fmt.Errorf("%w after %s", ErrTimeout, r.timeout)}
		}
		return "", &RemoteError{Model: r.modelName, Err: res.err}
	}
	if res.msg == nil {
		return "", &RemoteError{Model: r.modelName, Err: ErrEmptyReply}
	}

	reply := CleanReply(res.msg.Content)
	if reply == "" {
		return "", &RemoteError{Model: r.modelName, Err: ErrEmptyReply}
	}
	return reply, nil
}
