package state

import (
	"context"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
)

// Resolve applies the longest valid chain rule against every known peer.
// Peers are visited in host order. A peer's chain becomes the candidate
// when it is strictly longer than the best chain seen so far and it is
// valid, so among equally long chains the first one visited wins. Peers
// that can't be reached or return bad data are skipped. The local chain is
// replaced when a candidate was found and true is returned.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	best := s.db.Length()
	var candidate []database.Block

	for _, pr := range s.RetrieveKnownPeers() {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		cd, err := s.NetRequestPeerChain(ctx, pr)
		if err != nil {
			s.evHandler("state: Resolve: peer[%s]: skipped: ERROR: %s", pr, err)
			continue
		}

		if cd.Length <= best {
			s.evHandler("state: Resolve: peer[%s]: skipped: length[%d] not longer than [%d]", pr, cd.Length, best)
			continue
		}

		if cd.Length != len(cd.Chain) {
			s.evHandler("state: Resolve: peer[%s]: skipped: reported length[%d] but sent blocks[%d]", pr, cd.Length, len(cd.Chain))
			continue
		}

		blocks, err := database.ToBlocks(cd.Chain)
		if err != nil {
			s.evHandler("state: Resolve: peer[%s]: skipped: ERROR: %s", pr, err)
			continue
		}

		if !s.ValidateChain(blocks) {
			s.evHandler("state: Resolve: peer[%s]: skipped: invalid chain", pr)
			continue
		}

		s.evHandler("state: Resolve: peer[%s]: candidate: length[%d]", pr, cd.Length)

		best = cd.Length
		candidate = blocks
	}

	if candidate == nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceChain(candidate)
}
