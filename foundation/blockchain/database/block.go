package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/microchain/foundation/blockchain/pow"
	"github.com/ardanlabs/microchain/foundation/blockchain/signature"
)

// ErrInvalidBlock is returned when a block received from outside the node
// is missing required fields or carries malformed values.
var ErrInvalidBlock = errors.New("invalid block")

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index     uint64
	TimeStamp time.Time
	Trans     []Tx
	Proof     uint64
	PrevHash  string
}

// NewBlock constructs a block. The transactions are copied so the block
// never shares memory with the caller.
func NewBlock(index uint64, timeStamp time.Time, trans []Tx, proof uint64, prevHash string) Block {
	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	return Block{
		Index:     index,
		TimeStamp: timeStamp.UTC(),
		Trans:     cpy,
		Proof:     proof,
		PrevHash:  prevHash,
	}
}

// Hash returns the unique hash for the Block. Every field of the block is
// part of the hash.
func (b Block) Hash() string {
	return signature.Hash(NewBlockData(b))
}

// ValidateBlock takes a block and validates it against the block that
// precedes it in the chain.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Index)

	nextNumber := previousBlock.Index + 1
	if b.Index != nextNumber {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Index, nextNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Index)

	prevHash := previousBlock.Hash()
	if b.PrevHash != prevHash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.PrevHash, prevHash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: proof solves the parent proof", b.Index)

	if !pow.IsValid(previousBlock.Proof, b.Proof) {
		return fmt.Errorf("proof %d does not solve parent proof %d", b.Proof, previousBlock.Proof)
	}

	return nil
}

// ValidateChain walks the blocks from the second one onward validating each
// block against its predecessor. Empty or single block chains are valid.
func ValidateChain(blocks []Block, evHandler func(v string, args ...any)) error {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	if len(blocks) > 0 && blocks[0].Index != 0 {
		return fmt.Errorf("first block is not a genesis block, got number %d", blocks[0].Index)
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], evHandler); err != nil {
			return fmt.Errorf("blk[%d]: %w", i, err)
		}
	}

	return nil
}

// =============================================================================

// BlockData represents what is sent across the network and what is hashed.
type BlockData struct {
	Index     uint64 `json:"index"`
	TimeStamp string `json:"timestamp"`
	Trans     []Tx   `json:"transactions"`
	Proof     uint64 `json:"proof"`
	PrevHash  string `json:"previous_hash"`
}

// NewBlockData constructs the value to send across the network. The
// timestamp is rendered as ISO-8601 in UTC.
func NewBlockData(block Block) BlockData {
	trans := block.Trans
	if trans == nil {
		trans = []Tx{}
	}

	return BlockData{
		Index:     block.Index,
		TimeStamp: block.TimeStamp.UTC().Format(time.RFC3339Nano),
		Trans:     trans,
		Proof:     block.Proof,
		PrevHash:  block.PrevHash,
	}
}

// ToBlock converts a BlockData into a Block. Data missing required fields
// is rejected with ErrInvalidBlock.
func ToBlock(blockData BlockData) (Block, error) {
	if blockData.TimeStamp == "" {
		return Block{}, fmt.Errorf("%w: blk[%d]: missing timestamp", ErrInvalidBlock, blockData.Index)
	}

	if blockData.PrevHash == "" {
		return Block{}, fmt.Errorf("%w: blk[%d]: missing previous hash", ErrInvalidBlock, blockData.Index)
	}

	if blockData.Trans == nil {
		return Block{}, fmt.Errorf("%w: blk[%d]: missing transactions", ErrInvalidBlock, blockData.Index)
	}

	timeStamp, err := time.Parse(time.RFC3339Nano, blockData.TimeStamp)
	if err != nil {
		return Block{}, fmt.Errorf("%w: blk[%d]: timestamp: %s", ErrInvalidBlock, blockData.Index, err)
	}

	return NewBlock(blockData.Index, timeStamp, blockData.Trans, blockData.Proof, blockData.PrevHash), nil
}

// ToBlocks converts a chain received from the network into blocks.
func ToBlocks(chain []BlockData) ([]Block, error) {
	blocks := make([]Block, len(chain))
	for i, blockData := range chain {
		block, err := ToBlock(blockData)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	return blocks, nil
}
