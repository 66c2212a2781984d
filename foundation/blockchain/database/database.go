// Package database handles the in memory chain of blocks maintained by
// the node.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/microchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/microchain/foundation/blockchain/signature"
)

// ErrNotFound is returned when a requested block does not exist.
var ErrNotFound = errors.New("block not found")

// =============================================================================

// Database manages the ordered set of blocks that make up the chain. The
// chain is never empty, the first block is always a genesis block.
type Database struct {
	mu    sync.RWMutex
	chain []Block
}

// New constructs a new database holding only the genesis block.
func New(gen genesis.Genesis) *Database {
	return &Database{
		chain: []Block{GenesisBlock(gen)},
	}
}

// GenesisBlock constructs the fixed first block of every chain.
func GenesisBlock(gen genesis.Genesis) Block {
	trans := []Tx{NewTx("0", "0", 0)}
	return NewBlock(0, gen.Date, trans, gen.Proof, signature.ZeroHash)
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1]
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Write appends a block to the chain. No validation is performed, callers
// are trusted to provide the next block.
func (db *Database) Write(block Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = append(db.chain, block)
}

// Replace swaps the entire chain for the specified blocks.
func (db *Database) Replace(blocks []Block) error {
	if len(blocks) == 0 {
		return errors.New("replacement chain is empty")
	}

	if blocks[0].Index != 0 {
		return fmt.Errorf("replacement chain does not start at genesis, got number %d", blocks[0].Index)
	}

	cpy := make([]Block, len(blocks))
	copy(cpy, blocks)

	db.mu.Lock()
	defer db.mu.Unlock()

	db.chain = cpy

	return nil
}

// Copy returns a copy of the chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cpy := make([]Block, len(db.chain))
	copy(cpy, db.chain)

	return cpy
}

// GetBlock returns the block at the specified number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.chain)) {
		return Block{}, fmt.Errorf("blk[%d]: %w", num, ErrNotFound)
	}

	return db.chain[num], nil
}
