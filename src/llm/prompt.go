package llm

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// template variables
const (
	varSystemPrompt = "system_prompt"
	varHistory      = "history"
	varMessage      = "message"
)

// createChatTemplate renders [system, history..., user]. Only the template
// strings are formatted, so braces inside values are kept as is.
func createChatTemplate() prompt.ChatTemplate {
	messages := []schema.MessagesTemplate{
		schema.SystemMessage("{" + varSystemPrompt + "}"),
		schema.MessagesPlaceholder(varHistory, true),
		schema.UserMessage("{" + varMessage + "}"),
	}
	return prompt.FromMessages(schema.FString, messages...)
}

func templateVariables(systemPrompt string, history []*schema.Message, message string) map[string]any {
	if history == nil {
		history = []*schema.Message{}
	}
	return map[string]any{
		varSystemPrompt: systemPrompt,
		varHistory:      history,
		varMessage:      message,
	}
}
