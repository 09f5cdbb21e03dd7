package feedclient

import "github.com/google/uuid"

// Timeline is the ordered in-memory buffer of rendered messages, ascending
// by creation time (oldest first, newest last). Older pages arrive as
// contiguous blocks prepended before the current head; nothing is ever
// interleaved.
type Timeline struct {
	messages []Message
}

// PrependBlock inserts block, already in ascending order, before the
// current head.
func (t *Timeline) PrependBlock(block []Message) {
	t.messages = append(append([]Message{}, block...), t.messages...)
}

// Append adds a message after the current tail.
func (t *Timeline) Append(message Message) {
	t.messages = append(t.messages, message)
}

// Replace swaps the stored message with the same id, in place.
func (t *Timeline) Replace(message Message) bool {
	for i := range t.messages {
		if t.messages[i].ID == message.ID {
			t.messages[i] = message
			return true
		}
	}
	return false
}

// Remove drops the message with the given id, leaving the rest untouched.
func (t *Timeline) Remove(id uuid.UUID) bool {
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages = append(t.messages[:i], t.messages[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Timeline) Clear() {
	t.messages = nil
}

func (t *Timeline) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the buffer, oldest first.
func (t *Timeline) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Ascending reports whether the buffer is ordered by creation time with no
// duplicate ids. Tests use it as the ordering invariant.
func (t *Timeline) Ascending() bool {
	seen := make(map[uuid.UUID]bool, len(t.messages))
	for i, m := range t.messages {
		if seen[m.ID] {
			return false
		}
		seen[m.ID] = true
		if i > 0 && m.CreatedAt.Before(t.messages[i-1].CreatedAt) {
			return false
		}
	}
	return true
}

// reversed returns a page's newest-first messages in ascending order.
func reversed(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[len(messages)-1-i] = m
	}
	return out
}
