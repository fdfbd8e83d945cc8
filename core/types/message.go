package types

// Message is one entry of a pass's message history or a program's broadcast
// history. Histories are append-only; only the Read flag ever changes after
// the fact.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
	Read      bool   `json:"read"`
}

// Clone returns a copy of the message.
func (m Message) Clone() Message { return m }
