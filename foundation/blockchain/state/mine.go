package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
	"github.com/ardanlabs/microchain/foundation/blockchain/pow"
)

// ErrChainChanged is returned when the chain keeps changing underneath a
// mining operation.
var ErrChainChanged = errors.New("chain changed while mining")

// maxMiningAttempts bounds how many times mining restarts because the
// latest block changed during the search.
const maxMiningAttempts = 5

// MineNewBlock finds the proof for the latest block, credits the mining
// reward to this node and seals a new block with the mempool.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	for attempt := 1; attempt <= maxMiningAttempts; attempt++ {
		latest := s.db.LatestBlock()
		latestHash := latest.Hash()

		// The search runs without the lock so transactions can still be
		// queued while mining.
		proof, err := pow.FindProof(ctx, latest.Proof, s.evHandler)
		if err != nil {
			return database.Block{}, err
		}

		block, ok := s.commitMinedBlock(proof, latestHash)
		if ok {
			return block, nil
		}

		s.evHandler("state: MineNewBlock: MINING: latest block changed: attempt[%d]", attempt)
	}

	return database.Block{}, ErrChainChanged
}

// commitMinedBlock seals the block if the latest block is still the one the
// proof was found for.
func (s *State) commitMinedBlock(proof uint64, latestHash string) (database.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.LatestBlock().Hash() != latestHash {
		return database.Block{}, false
	}

	reward := database.NewTx("0", s.nodeID, s.genesis.MiningReward)
	s.mempool.Add(reward)

	return s.sealBlock(proof, latestHash), true
}
