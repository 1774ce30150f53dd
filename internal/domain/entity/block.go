package entity

import (
	"encoding/json"
	"fmt"

	"github.com/slack-go/slack"

	domainerrors "github.com/qj0r9j0vc2/slack-webhook/internal/domain/errors"
)

// TextRenderMode controls how the receiving platform interprets block text.
type TextRenderMode string

const (
	// TextPlain renders the text literally.
	TextPlain TextRenderMode = slack.PlainTextType
	// TextMrkdwn renders the text with Slack's markdown dialect.
	TextMrkdwn TextRenderMode = slack.MarkdownType
)

// BlockKind is the closed set of block types a message can carry.
type BlockKind string

const (
	BlockHeader  BlockKind = BlockKind(slack.MBTHeader)
	BlockSection BlockKind = BlockKind(slack.MBTSection)
	BlockDivider BlockKind = BlockKind(slack.MBTDivider)
)

// BlockText is the text object attached to a header or section block.
type BlockText struct {
	// Mode is serialized as the text object's "type".
	Mode TextRenderMode `json:"type"`

	// Text is the raw string to render.
	Text string `json:"text"`
}

// Block is one renderable unit of a message.
// Blocks are immutable; use NewHeaderBlock, NewSectionBlock,
// NewPlainSectionBlock or NewDividerBlock to build one.
type Block struct {
	kind BlockKind
	text *BlockText
}

// NewHeaderBlock creates a header block with plain text.
func NewHeaderBlock(text string) Block {
	return newTextBlock(BlockHeader, TextPlain, text)
}

// NewSectionBlock creates a section block with mrkdwn text.
func NewSectionBlock(text string) Block {
	return newTextBlock(BlockSection, TextMrkdwn, text)
}

// NewPlainSectionBlock creates a section block whose text is rendered literally.
func NewPlainSectionBlock(text string) Block {
	return newTextBlock(BlockSection, TextPlain, text)
}

// NewDividerBlock creates a divider block. Dividers never carry text.
func NewDividerBlock() Block {
	return Block{kind: BlockDivider}
}

func newTextBlock(kind BlockKind, mode TextRenderMode, text string) Block {
	return Block{
		kind: kind,
		text: &BlockText{Mode: mode, Text: text},
	}
}

// Kind returns the block type.
func (b Block) Kind() BlockKind {
	return b.kind
}

// Text returns the block text and whether the block carries any.
func (b Block) Text() (BlockText, bool) {
	if b.text == nil {
		return BlockText{}, false
	}
	return *b.text, true
}

// Validate checks the block was built by one of the constructors.
func (b Block) Validate() error {
	switch b.kind {
	case BlockDivider:
		if b.text != nil {
			return fmt.Errorf("%w: divider with text", domainerrors.ErrInvalidBlock)
		}
	case BlockHeader, BlockSection:
		if b.text == nil {
			return fmt.Errorf("%w: %s without text", domainerrors.ErrInvalidBlock, b.kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", domainerrors.ErrInvalidBlock, b.kind)
	}
	return nil
}

// wireBlock is the Block Kit JSON shape. The text object is omitted,
// not nulled, when absent.
type wireBlock struct {
	Type BlockKind  `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(wireBlock{Type: b.kind, Text: b.text})
}

// String returns a short human-readable form, used in logs.
func (b Block) String() string {
	if b.text == nil {
		return string(b.kind)
	}
	return fmt.Sprintf("%s(%s: %q)", b.kind, b.text.Mode, b.text.Text)
}
