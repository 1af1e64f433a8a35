package conversation

import (
	"github.com/cloudwego/eino/schema"
)

// DefaultWindow is how many stored messages accompany a model call.
const DefaultWindow = 8

type ContextStrategy interface {
	Select(messages []*schema.Message) []*schema.Message
	GetMaxTurns() int
}

// WindowStrategy sends the last maxTurns messages to the model
type WindowStrategy struct {
	maxTurns int
}

func NewWindowStrategy(maxTurns int) *WindowStrategy {
	if maxTurns <= 0 {
		maxTurns = DefaultWindow
	}
	return &WindowStrategy{maxTurns: maxTurns}
}

func (s *WindowStrategy) GetMaxTurns() int {
	return s.maxTurns
}

func (s *WindowStrategy) Select(messages []*schema.Message) []*schema.Message {
	return trimTail(messages, s.maxTurns)
}

// Conversation length buckets
const (
	LengthFirstInteraction = "first_interaction"
	LengthShort            = "short"
	LengthLong             = "long"
	LengthDeep             = "deep"
)

// LengthBucket classifies a stored context length
func LengthBucket(n int) string {
	switch {
	case n <= 0:
		return LengthFirstInteraction
	case n < 6:
		return LengthShort
	case n < 16:
		return LengthLong
	default:
		return LengthDeep
	}
}

// Helper function
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
