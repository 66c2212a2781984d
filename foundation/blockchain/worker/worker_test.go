package worker_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
	"github.com/ardanlabs/microchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/microchain/foundation/blockchain/state"
	"github.com/ardanlabs/microchain/foundation/blockchain/worker"
)

func Test_AutoMine(t *testing.T) {
	st := state.New(state.Config{
		NodeID:  "miner1",
		Genesis: genesis.Default(),
	})

	w := worker.Run(st, worker.Config{AutoMine: true}, nil)
	defer w.Shutdown()

	st.QueueTransaction(database.NewTx("A", "B", 10))

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if len(st.RetrieveChain()) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	chain := st.RetrieveChain()
	if len(chain) != 2 {
		t.Fatalf("Should have mined a block in the background, chain length %d", len(chain))
	}

	if len(chain[1].Trans) != 2 || chain[1].Trans[0] != database.NewTx("A", "B", 10) {
		t.Fatalf("Should have mined the queued transaction, got %v", chain[1].Trans)
	}
}

func Test_Shutdown(t *testing.T) {
	st := state.New(state.Config{
		NodeID:  "miner1",
		Genesis: genesis.Default(),
	})

	worker.Run(st, worker.Config{ResolveInterval: time.Millisecond}, nil)

	st.QueueTransaction(database.NewTx("A", "B", 10))
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		st.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Should be able to shutdown the worker.")
	}

	if len(st.RetrieveChain()) != 1 {
		t.Fatalf("Should not mine when auto mining is off.")
	}
}
