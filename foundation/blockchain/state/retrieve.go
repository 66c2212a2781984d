package state

import (
	"fmt"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
	"github.com/ardanlabs/microchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/microchain/foundation/blockchain/peer"
)

// RetrieveNodeID returns the identifier credited with mining rewards.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	return s.db.Copy()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveKnownHosts retrieves the hosts of every known peer.
func (s *State) RetrieveKnownHosts() []string {
	return s.knownPeers.Hosts()
}

// =============================================================================

// RegisterPeers adds the addresses to the set of known peers. Every address
// is checked first, nothing is added when any of them is malformed. The
// full set of known hosts is returned.
func (s *State) RegisterPeers(addresses []string) ([]string, error) {
	peers := make([]peer.Peer, len(addresses))
	for i, address := range addresses {
		pr, err := peer.New(address)
		if err != nil {
			return nil, fmt.Errorf("registering %q: %w", address, err)
		}
		peers[i] = pr
	}

	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: RegisterPeers: adding peer-node %s", pr)
		}
	}

	return s.knownPeers.Hosts(), nil
}

// RemoveKnownPeer provides the ability to remove a peer from
// the known peer list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}
