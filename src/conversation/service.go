package conversation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

type Service struct {
	repo     Repository
	strategy ContextStrategy
}

func NewService(repo Repository, strategy ContextStrategy) *Service {
	if strategy == nil {
		strategy = NewWindowStrategy(DefaultWindow)
	}
	return &Service{repo: repo, strategy: strategy}
}

// RecordExchange stores the user message and the reply as one append
func (s *Service) RecordExchange(ctx context.Context, userID, message, reply string) error {
	err := s.repo.Append(ctx, userID,
		schema.UserMessage(message),
		schema.AssistantMessage(reply, nil),
	)
	if err != nil {
		return fmt.Errorf("failed to record exchange for %s: %w", userID, err)
	}
	return nil
}

// Window returns the messages that accompany the next model call
func (s *Service) Window(ctx context.Context, userID string) ([]*schema.Message, error) {
	messages, err := s.repo.Recent(ctx, userID, s.strategy.GetMaxTurns())
	if err != nil {
		return nil, err
	}
	return s.strategy.Select(messages), nil
}

// History returns up to n stored messages, all when n <= 0
func (s *Service) History(ctx context.Context, userID string, n int) ([]*schema.Message, error) {
	return s.repo.Recent(ctx, userID, n)
}

func (s *Service) Length(ctx context.Context, userID string) (int, error) {
	return s.repo.Length(ctx, userID)
}

// Bucket is the conversation length bucket of userID
func (s *Service) Bucket(ctx context.Context, userID string) (string, error) {
	n, err := s.repo.Length(ctx, userID)
	if err != nil {
		return "", err
	}
	return LengthBucket(n), nil
}

func (s *Service) ActiveUsers(ctx context.Context) (int, error) {
	return s.repo.Users(ctx)
}

func (s *Service) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
