package entity

import (
	"fmt"

	"github.com/slack-go/slack"

	domainerrors "github.com/qj0r9j0vc2/slack-webhook/internal/domain/errors"
)

// FromSlackBlocks converts slack-go Block Kit blocks into message blocks.
// Only header, section (with text) and divider blocks are accepted;
// block IDs, fields and accessories are dropped.
func FromSlackBlocks(blocks []slack.Block) ([]Block, error) {
	out := make([]Block, 0, len(blocks))
	for i, sb := range blocks {
		b, err := fromSlackBlock(sb)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func fromSlackBlock(sb slack.Block) (Block, error) {
	switch b := sb.(type) {
	case *slack.HeaderBlock:
		if b.Text == nil {
			return Block{}, fmt.Errorf("%w: header without text", domainerrors.ErrInvalidBlock)
		}
		return newTextBlock(BlockHeader, TextPlain, b.Text.Text), nil

	case *slack.SectionBlock:
		if b.Text == nil {
			return Block{}, fmt.Errorf("%w: section without text", domainerrors.ErrInvalidBlock)
		}
		mode, err := renderModeOf(b.Text)
		if err != nil {
			return Block{}, err
		}
		return newTextBlock(BlockSection, mode, b.Text.Text), nil

	case *slack.DividerBlock:
		return NewDividerBlock(), nil

	case nil:
		return Block{}, fmt.Errorf("%w: nil block", domainerrors.ErrInvalidBlock)

	default:
		return Block{}, fmt.Errorf("%w: %s", domainerrors.ErrUnsupportedBlock, sb.BlockType())
	}
}

func renderModeOf(t *slack.TextBlockObject) (TextRenderMode, error) {
	switch t.Type {
	case slack.PlainTextType:
		return TextPlain, nil
	case slack.MarkdownType:
		return TextMrkdwn, nil
	default:
		return "", fmt.Errorf("%w: text type %q", domainerrors.ErrInvalidBlock, t.Type)
	}
}
