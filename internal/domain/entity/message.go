package entity

// Message is the body POSTed to an incoming webhook.
type Message struct {
	// Text is the fallback shown in notifications and where blocks cannot render.
	Text string `json:"text"`

	// Blocks is the rich layout. An empty slice is omitted from the JSON,
	// never sent as [] or null.
	Blocks []Block `json:"blocks,omitempty"`
}

// NewMessage creates a message that shares the given blocks with the caller.
// The blocks must not be modified until the send returns.
func NewMessage(text string, blocks ...Block) Message {
	return Message{Text: text, Blocks: blocks}
}

// NewHeaderMessage creates a message titled by header. When info is
// non-nil it is appended as a mrkdwn section below the header.
func NewHeaderMessage(header string, info *string) Message {
	blocks := []Block{NewHeaderBlock(header)}
	if info != nil {
		blocks = append(blocks, NewSectionBlock(*info))
	}
	return Message{Text: header, Blocks: blocks}
}

// NewMarkdownMessage creates a message with a single mrkdwn section.
func NewMarkdownMessage(text string) Message {
	return Message{
		Text:   text,
		Blocks: []Block{NewSectionBlock(text)},
	}
}

// Validate checks every block in the message.
func (m Message) Validate() error {
	for _, b := range m.Blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}
