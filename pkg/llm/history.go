package llm

import "onboarding-buddy-be/pkg/store"

// Exchange is one complete user/assistant pair from the message log.
type Exchange struct {
	User      string
	Assistant string
}

// SplitHistory pairs each "Human: " entry with the "Assistant: " entry that
// directly follows it. Anything else, like a lone welcome reply, is dropped.
func SplitHistory(log []string) []Exchange {
	exchanges := make([]Exchange, 0, len(log)/2)
	for i := 0; i < len(log); i++ {
		if !store.IsHumanEntry(log[i]) || i+1 >= len(log) || !store.IsAssistantEntry(log[i+1]) {
			continue
		}
		exchanges = append(exchanges, Exchange{
			User:      log[i][len(store.HumanPrefix):],
			Assistant: log[i+1][len(store.AssistantPrefix):],
		})
		i++
	}
	return exchanges
}

// HistoryMessages expands exchanges into alternating user/assistant messages.
func HistoryMessages(exchanges []Exchange) []Message {
	messages := make([]Message, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		messages = append(messages,
			Message{Role: RoleUser, Content: Text(ex.User)},
			Message{Role: RoleAssistant, Content: Text(ex.Assistant)},
		)
	}
	return messages
}
