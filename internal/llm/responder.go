package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/abys-ai/abys-go/internal/chat"
	"github.com/abys-ai/abys-go/internal/logger"
)

// Wire role the backend expects for assistant turns.
const roleModel = "model"

// Process-wide generation settings. These are constants, not per-call
// parameters.
const (
	systemInstruction = "You are Abys, a helpful and knowledgeable AI assistant. Answer clearly and concisely, and use markdown formatting where it improves readability."
	temperature       = 0.7

	// historyLimit caps how many prior messages are transmitted. The caller
	// hands over its own window; this cut applies on top of it.
	historyLimit = 6
)

// Fixed texts delivered when generation cannot produce a usable answer.
const (
	emptyReplyText  = "I apologize, but I couldn't generate a response."
	throttledText   = "The service is currently under heavy load. Please wait about 10-15 seconds before trying again."
	unreachableText = "I'm having trouble connecting to my brain right now. Please check your connection and try again."
)

// Responder turns one user prompt plus bounded history into assistant text.
// It never reports failure to its caller: backend errors are classified and
// returned as fixed advisory texts, so the conversation keeps flowing and
// the error lands in the transcript instead.
type Responder struct {
	client Client
	model  string
}

func NewResponder(client Client, model string) *Responder {
	return &Responder{client: client, model: model}
}

// Respond issues a single generation request. One attempt, no retries, no
// client-side timeout.
func (r *Responder) Respond(ctx context.Context, prompt string, history []chat.Message) string {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemInstruction,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == chat.RoleAssistant {
			role = roleModel
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		logger.L.Error("generation call failed", "error", err)
		if isThrottled(err) {
			return throttledText
		}
		return unreachableText
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return emptyReplyText
	}
	return resp.Choices[0].Message.Content
}

// isThrottled reports whether err is a rate-limit rejection: an API error
// carrying HTTP 429, or any error whose text embeds that status code.
func isThrottled(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(err.Error(), "429")
}
