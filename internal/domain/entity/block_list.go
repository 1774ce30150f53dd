package entity

import (
	"iter"
	"slices"
)

// BlockList is a growable collection that owns its blocks.
// It is meant for accumulating more blocks than one request may carry
// and splitting them with Chunks.
type BlockList struct {
	blocks []Block
}

// NewBlockList creates a list holding a copy of blocks.
func NewBlockList(blocks ...Block) *BlockList {
	return &BlockList{blocks: slices.Clone(blocks)}
}

// Append adds blocks to the end of the list.
func (l *BlockList) Append(blocks ...Block) *BlockList {
	l.blocks = append(l.blocks, blocks...)
	return l
}

// AppendHeader adds a header block.
func (l *BlockList) AppendHeader(text string) *BlockList {
	return l.Append(NewHeaderBlock(text))
}

// AppendSection adds a mrkdwn section block.
func (l *BlockList) AppendSection(text string) *BlockList {
	return l.Append(NewSectionBlock(text))
}

// AppendDivider adds a divider block.
func (l *BlockList) AppendDivider() *BlockList {
	return l.Append(NewDividerBlock())
}

// Len returns the number of blocks.
func (l *BlockList) Len() int {
	return len(l.blocks)
}

// Blocks returns a copy of the blocks.
func (l *BlockList) Blocks() []Block {
	return slices.Clone(l.blocks)
}

// Chunks returns consecutive groups of at most size blocks, in order.
// The last group may be shorter. The sequence can be ranged over more
// than once. Chunks panics if size is less than 1.
func (l *BlockList) Chunks(size int) iter.Seq[[]Block] {
	return ChunkBlocks(l.Blocks(), size)
}

// ChunkBlocks splits blocks positionally into groups of at most size.
// Each yielded group has its own backing array. ChunkBlocks panics if
// size is less than 1.
func ChunkBlocks(blocks []Block, size int) iter.Seq[[]Block] {
	if size < 1 {
		panic("entity: chunk size must be at least 1")
	}
	return func(yield func([]Block) bool) {
		for chunk := range slices.Chunk(blocks, size) {
			if !yield(slices.Clone(chunk)) {
				return
			}
		}
	}
}
