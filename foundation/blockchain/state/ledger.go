package state

import (
	"time"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
)

// QueueTransaction adds the transaction to the mempool and returns the
// number of the block expected to contain it. The number is a prediction,
// a chain replacement before the next block is sealed voids it.
func (s *State) QueueTransaction(tx database.Tx) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.mempool.Add(tx)
	next := s.db.LatestBlock().Index + 1

	s.evHandler("state: QueueTransaction: tx[%s]: mempool[%d]: blk[%d]", tx, n, next)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return next
}

// SealBlock creates a new block holding every transaction in the mempool
// and appends it to the chain. An empty previous hash is replaced with the
// hash of the latest block. The proof is not validated, callers are trusted
// to provide a proof that solves the latest block's proof.
func (s *State) SealBlock(proof uint64, prevHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sealBlock(proof, prevHash)
}

// ValidateChain reports whether the blocks form a valid chain.
func (s *State) ValidateChain(blocks []database.Block) bool {
	if err := database.ValidateChain(blocks, s.evHandler); err != nil {
		s.evHandler("state: ValidateChain: ERROR: %s", err)
		return false
	}

	return true
}

// =============================================================================

// sealBlock performs the work of SealBlock. The caller must hold the lock.
func (s *State) sealBlock(proof uint64, prevHash string) database.Block {
	latest := s.db.LatestBlock()
	if prevHash == "" {
		prevHash = latest.Hash()
	}

	block := database.NewBlock(uint64(s.db.Length()), time.Now(), s.mempool.PickAll(), proof, prevHash)
	s.db.Write(block)

	s.evHandler("state: sealBlock: blk[%d]: txs[%d]: proof[%d]: prevHash[%s]", block.Index, len(block.Trans), block.Proof, block.PrevHash)

	return block
}

// replaceChain swaps the local chain for a longer chain. The length is
// checked again since the local chain may have grown while the candidate
// was being fetched. The caller must hold the lock.
func (s *State) replaceChain(blocks []database.Block) (bool, error) {
	if len(blocks) <= s.db.Length() {
		s.evHandler("state: replaceChain: candidate no longer longer: candidate[%d]: local[%d]", len(blocks), s.db.Length())
		return false, nil
	}

	if err := s.db.Replace(blocks); err != nil {
		return false, err
	}

	s.evHandler("state: replaceChain: chain replaced: length[%d]", len(blocks))

	return true, nil
}
