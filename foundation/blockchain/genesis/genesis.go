// Package genesis maintains access to the genesis settings.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis settings.
type Genesis struct {
	Date         time.Time `json:"date"`          // Timestamp recorded in the genesis block.
	Proof        uint64    `json:"proof"`         // Placeholder proof the first mined block is anchored to.
	MiningReward int64     `json:"mining_reward"` // Reward credited to the miner of a block.
}

// Default returns the genesis settings every node starts with unless a file
// is provided. Nodes must share these values for their chains to agree.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Proof:        0,
		MiningReward: 1,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default settings.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	genesis.Date = genesis.Date.UTC()

	return genesis, nil
}
