package chat

// Pending placeholder reconciliation. A client appends an assistant
// placeholder keyed by a locally generated correlation id while the reply
// is being produced, then resolves or drops it when the outcome is known.
// These are pure functions over a message list so the transitions are
// trivially testable and the transport can replay them on its own copy.

// AppendPending adds an assistant placeholder with the given correlation id.
func AppendPending(messages []Message, correlationID, sessionID string) []Message {
	return append(messages, Message{
		ID:        correlationID,
		SessionID: sessionID,
		Role:      RoleAssistant,
		Pending:   true,
	})
}

// Resolve replaces the pending placeholder with the final content.
// Unknown or already-resolved ids leave the list unchanged.
func Resolve(messages []Message, correlationID, content string, source Source) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	for i := range out {
		if out[i].ID == correlationID && out[i].Pending {
			out[i].Content = content
			out[i].Source = source
			out[i].Pending = false
		}
	}
	return out
}

// Fail drops the pending placeholder. Unknown ids leave the list unchanged.
func Fail(messages []Message, correlationID string) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.ID == correlationID && m.Pending {
			continue
		}
		out = append(out, m)
	}
	return out
}
