package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
	"github.com/ardanlabs/microchain/foundation/blockchain/peer"
)

const baseURL = "http://%s"

// ChainData represents the chain a node advertises to its peers.
type ChainData struct {
	Chain  []database.BlockData `json:"chain"`
	Length int                  `json:"length"`
}

// NewChainData constructs the value to send across the network.
func NewChainData(blocks []database.Block) ChainData {
	chain := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		chain[i] = database.NewBlockData(block)
	}

	return ChainData{
		Chain:  chain,
		Length: len(chain),
	}
}

// NetRequestPeerChain asks the peer for its full chain.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) (ChainData, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var cd ChainData
	if err := s.send(ctx, http.MethodGet, url, &cd); err != nil {
		return ChainData{}, err
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr, cd.Length)

	return cd, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (s *State) send(ctx context.Context, method string, url string, dataRecv any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return errors.Join(database.ErrInvalidBlock, err)
		}
	}

	return nil
}
