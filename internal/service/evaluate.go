package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/flashcard-studio/internal/ai"
	"github.com/sakif/flashcard-studio/internal/apperror"
)

// evaluatePromptFormat asks the model for a bare yes/no verdict. No
// structured output is enforced — the reply is reduced by substring test.
const evaluatePromptFormat = "You are a smart evaluator. Compare the user’s answer to the correct answer.\n" +
	"Correct Answer: %s\n" +
	"User Answer: %s\n" +
	"Is the user’s answer semantically correct? Reply only 'yes' or 'no'."

// EvaluateService grades a free-form answer against the expected answer
// using the completion model as a semantic judge.
type EvaluateService struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewEvaluateService creates an EvaluateService.
func NewEvaluateService(completer ai.Completer, logger *slog.Logger) *EvaluateService {
	return &EvaluateService{
		completer: completer,
		logger:    logger,
	}
}

// Evaluate returns true when the model judges the user's answer
// semantically correct.
//
// The reduction is deliberately crude: lower-case the reply and look for
// the substring "yes". A reply of "no", an empty reply, or any malformed
// text all count as incorrect. Only a transport-level failure is an error.
func (s *EvaluateService) Evaluate(ctx context.Context, userAnswer, correctAnswer string) (bool, error) {
	userAnswer = strings.TrimSpace(userAnswer)
	correctAnswer = strings.TrimSpace(correctAnswer)

	if userAnswer == "" || correctAnswer == "" {
		return false, apperror.ValidationFailed("", "Empty input")
	}

	prompt := fmt.Sprintf(evaluatePromptFormat, correctAnswer, userAnswer)

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("evaluation request failed", slog.String("error", err.Error()))
		return false, apperror.Upstream(err)
	}

	verdict := strings.Contains(strings.ToLower(strings.TrimSpace(reply)), "yes")

	s.logger.Info("answer evaluated", slog.Bool("correct", verdict))

	return verdict, nil
}
