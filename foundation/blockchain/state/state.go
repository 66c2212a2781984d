// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
	"github.com/ardanlabs/microchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/microchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/microchain/foundation/blockchain/peer"
)

// defaultPeerTimeout bounds each request made to a peer when no timeout
// is configured.
const defaultPeerTimeout = 10 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and peer updates.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID      string
	Host        string
	Genesis     genesis.Genesis
	KnownPeers  *peer.PeerSet
	PeerTimeout time.Duration
	EvHandler   EventHandler
}

// State manages the blockchain database.
type State struct {
	nodeID    string
	host      string
	evHandler EventHandler

	// mu serializes every operation that changes the chain or the mempool
	// so queuing, sealing and chain replacement never interleave.
	mu sync.Mutex

	genesis    genesis.Genesis
	knownPeers *peer.PeerSet
	db         *database.Database
	mempool    *mempool.Mempool
	client     *http.Client

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = defaultPeerTimeout
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		nodeID:    cfg.NodeID,
		host:      cfg.Host,
		evHandler: ev,

		genesis:    cfg.Genesis,
		knownPeers: knownPeers,
		db:         database.New(cfg.Genesis),
		mempool:    mempool.New(),
		client:     &http.Client{Timeout: timeout},
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
