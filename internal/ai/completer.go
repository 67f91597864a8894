// Package ai defines the chat-completion contract shared by the model backends.
package ai

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned when a backend lacks its endpoint or credentials.
var ErrNotConfigured = errors.New("请先在设置中配置 Azure OpenAI 的 Endpoint 和 API Key")

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat completion call.
type Request struct {
	Messages    []Message
	Temperature float64
	// JSON asks the backend to constrain the reply to a JSON object.
	JSON bool
}

// Completer sends a conversation to a model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Provider() string
	Model() string
}

// System and User build the two-message conversations used for screening.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// SplitSystem joins every system message into one instruction and returns the remaining turns.
func SplitSystem(messages []Message) (string, []Message) {
	var (
		system []string
		rest   = make([]Message, 0, len(messages))
	)
	for _, m := range messages {
		if m.Role == RoleSystem {
			if text := strings.TrimSpace(m.Content); text != "" {
				system = append(system, text)
			}
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
