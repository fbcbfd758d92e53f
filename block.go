package coapmsg

// Block describes one fragment of a blockwise transfer: its position,
// whether further blocks follow, and the negotiated block size as the
// exponent szx of the RFC 7959 size formula 2^(szx+4).
type Block struct {
	BlockNumber  int
	MoreBlocks   bool
	SizeExponent int
}

func NewBlock(moreBlocks bool, num, szx int) *Block {
	block := &Block{
		BlockNumber:  num,
		MoreBlocks:   moreBlocks,
		SizeExponent: szx,
	}
	return block
}

func NewBlockFromInt(blockValue int) *Block {
	block := &Block{}

	block.FromInt(blockValue)

	return block
}

// Size returns the block size in bytes, 16 for szx 0 up to 2048 for szx 7.
func (block *Block) Size() int {
	return 1 << uint(block.SizeExponent+4)
}

func (block *Block) ToInt() int {
	m := 0
	if block.MoreBlocks {
		m = 1
	}

	value := block.BlockNumber << 4
	value |= m << 3
	value |= block.SizeExponent & 0x07

	return value
}

func (block *Block) FromInt(blockValue int) {
	block.BlockNumber = blockValue >> 4
	block.MoreBlocks = (blockValue & 0x08) != 0
	block.SizeExponent = blockValue & 0x07
}

// Encode renders the packed descriptor with the same canonical
// minimal-uint rule as plain uint options.
func (block *Block) Encode() []byte {
	return encodeInt(uint32(block.ToInt()))
}

func (block *Block) Length() int {
	return len(block.Encode())
}
