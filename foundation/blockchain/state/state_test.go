package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/microchain/foundation/blockchain/database"
	"github.com/ardanlabs/microchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/microchain/foundation/blockchain/pow"
	"github.com/ardanlabs/microchain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newState(t *testing.T, nodeID string) *state.State {
	return state.New(state.Config{
		NodeID:    nodeID,
		Genesis:   genesis.Default(),
		EvHandler: func(v string, args ...any) { t.Logf(v, args...) },
	})
}

func mine(t *testing.T, s *state.State, blocks int) {
	for i := 0; i < blocks; i++ {
		if _, err := s.MineNewBlock(context.Background()); err != nil {
			t.Fatalf("Should be able to mine a block: %s", err)
		}
	}
}

// peerServer serves the chain of the specified state the way a node does.
func peerServer(s *state.State) *httptest.Server {
	h := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(state.NewChainData(s.RetrieveChain()))
	}

	return httptest.NewServer(http.HandlerFunc(h))
}

func rawServer(status int, body string) *httptest.Server {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}

	return httptest.NewServer(http.HandlerFunc(h))
}

// =============================================================================

func Test_MineWithTransaction(t *testing.T) {
	t.Log("Given the need to mine submitted transactions into a block.")
	{
		s := newState(t, "miner1")

		chain := s.RetrieveChain()
		if len(chain) != 1 || chain[0].Index != 0 || chain[0].PrevHash != "0" {
			t.Fatalf("\t%s\tShould start with only the genesis block.", failed)
		}
		t.Logf("\t%s\tShould start with only the genesis block.", success)

		tx := database.NewTx("A", "B", 10)
		if next := s.QueueTransaction(tx); next != 1 {
			t.Fatalf("\t%s\tShould predict block 1, got %d.", failed, next)
		}
		t.Logf("\t%s\tShould predict block 1.", success)

		block, err := s.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if block.Index != 1 {
			t.Fatalf("\t%s\tShould get back block 1, got %d.", failed, block.Index)
		}

		exp := []database.Tx{tx, database.NewTx("0", "miner1", 1)}
		if len(block.Trans) != len(exp) {
			t.Fatalf("\t%s\tShould have %d transactions, got %d.", failed, len(exp), len(block.Trans))
		}
		for i := range exp {
			if block.Trans[i] != exp[i] {
				t.Logf("\t%s\tgot: %s", failed, block.Trans[i])
				t.Logf("\t%s\texp: %s", failed, exp[i])
				t.Fatalf("\t%s\tShould have the submitted and reward transactions.", failed)
			}
		}
		t.Logf("\t%s\tShould have the submitted and reward transactions.", success)

		if !pow.IsValid(0, block.Proof) {
			t.Fatalf("\t%s\tShould have a proof solving the genesis proof.", failed)
		}
		t.Logf("\t%s\tShould have a proof solving the genesis proof.", success)

		if block.PrevHash != chain[0].Hash() {
			t.Fatalf("\t%s\tShould link to the genesis block.", failed)
		}
		t.Logf("\t%s\tShould link to the genesis block.", success)

		if len(s.RetrieveMempool()) != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool.", failed)
		}
		t.Logf("\t%s\tShould have an empty mempool.", success)

		if !s.ValidateChain(s.RetrieveChain()) {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_SealBlock(t *testing.T) {
	s := newState(t, "miner1")
	genesisHash := s.RetrieveLatestBlock().Hash()

	tx := database.NewTx("A", "B", 3)
	s.QueueTransaction(tx)

	block := s.SealBlock(12345, "")
	if block.Index != 1 || block.PrevHash != genesisHash || block.Proof != 12345 {
		t.Logf("got: %+v", block)
		t.Fatalf("Should seal block 1 linked to genesis with the given proof.")
	}

	if len(block.Trans) != 1 || block.Trans[0] != tx {
		t.Fatalf("Should seal the queued transaction into the block.")
	}

	if len(s.RetrieveMempool()) != 0 {
		t.Fatalf("Should have an empty mempool after sealing.")
	}

	block = s.SealBlock(1, "custom")
	if block.Index != 2 || block.PrevHash != "custom" || len(block.Trans) != 0 {
		t.Logf("got: %+v", block)
		t.Fatalf("Should seal an empty block with the given previous hash.")
	}

	if s.ValidateChain(s.RetrieveChain()) {
		t.Fatalf("Should not validate a chain sealed with bad links.")
	}
}

func Test_MineCancel(t *testing.T) {
	s := newState(t, "miner1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.MineNewBlock(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Should get back a cancel error, got %v", err)
	}

	if len(s.RetrieveChain()) != 1 || len(s.RetrieveMempool()) != 0 {
		t.Fatalf("Should not change the chain or mempool when cancelled.")
	}
}

func Test_RegisterPeers(t *testing.T) {
	s := newState(t, "miner1")

	hosts, err := s.RegisterPeers([]string{"http://10.0.0.1:5000", "http://10.0.0.1:5000/"})
	if err != nil {
		t.Fatalf("Should be able to register peers: %s", err)
	}

	if len(hosts) != 1 || hosts[0] != "10.0.0.1:5000" {
		t.Logf("got: %v", hosts)
		t.Fatalf("Should have exactly one normalized peer.")
	}

	if _, err := s.RegisterPeers([]string{"http://10.0.0.2:5000", "http://"}); err == nil {
		t.Fatalf("Should not be able to register a malformed address.")
	}

	if hosts := s.RetrieveKnownHosts(); len(hosts) != 1 {
		t.Fatalf("Should not register any address from a rejected request, got %v", hosts)
	}
}

func Test_Resolve(t *testing.T) {
	t.Log("Given the need to resolve conflicts with the longest valid chain.")
	{
		local := newState(t, "local")
		mine(t, local, 1)

		longest := newState(t, "longest")
		mine(t, longest, 3)
		good := peerServer(longest)
		defer good.Close()

		tampered := newState(t, "tampered")
		mine(t, tampered, 4)
		chain := tampered.RetrieveChain()
		chain[2].Trans = append(chain[2].Trans, database.NewTx("X", "Y", 1000))
		h := func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(state.NewChainData(chain))
		}
		bad := httptest.NewServer(http.HandlerFunc(h))
		defer bad.Close()

		broken := rawServer(http.StatusInternalServerError, "boom")
		defer broken.Close()

		missing := rawServer(http.StatusOK, `{"chain":[{"index":0}],"length":9}`)
		defer missing.Close()

		liar := rawServer(http.StatusOK, `{"chain":[],"length":9}`)
		defer liar.Close()

		down := httptest.NewServer(http.NotFoundHandler())
		down.Close()

		addrs := []string{good.URL, bad.URL, broken.URL, missing.URL, liar.URL, down.URL}
		if _, err := local.RegisterPeers(addrs); err != nil {
			t.Fatalf("\t%s\tShould be able to register peers: %s", failed, err)
		}

		replaced, err := local.Resolve(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to resolve: %s", failed, err)
		}
		if !replaced {
			t.Fatalf("\t%s\tShould replace the local chain.", failed)
		}
		t.Logf("\t%s\tShould replace the local chain.", success)

		got := local.RetrieveChain()
		exp := longest.RetrieveChain()
		if len(got) != len(exp) || got[len(got)-1].Hash() != exp[len(exp)-1].Hash() {
			t.Fatalf("\t%s\tShould adopt the longest valid chain.", failed)
		}
		t.Logf("\t%s\tShould adopt the longest valid chain.", success)

		replaced, err = local.Resolve(context.Background())
		if err != nil || replaced {
			t.Fatalf("\t%s\tShould keep an authoritative chain, replaced[%v] err[%v].", failed, replaced, err)
		}
		t.Logf("\t%s\tShould keep an authoritative chain.", success)
	}
}

func Test_ResolveNoConflict(t *testing.T) {
	local := newState(t, "local")
	mine(t, local, 2)

	same := newState(t, "same")
	mine(t, same, 2)
	srv := peerServer(same)
	defer srv.Close()

	shorter := newState(t, "shorter")
	mine(t, shorter, 1)
	srv2 := peerServer(shorter)
	defer srv2.Close()

	if _, err := local.RegisterPeers([]string{srv.URL, srv2.URL}); err != nil {
		t.Fatalf("Should be able to register peers: %s", err)
	}

	before := local.RetrieveLatestBlock().Hash()

	replaced, err := local.Resolve(context.Background())
	if err != nil || replaced {
		t.Fatalf("Should not replace the chain, replaced[%v] err[%v].", replaced, err)
	}

	if local.RetrieveLatestBlock().Hash() != before || len(local.RetrieveChain()) != 3 {
		t.Fatalf("Should leave the local chain unchanged.")
	}
}

func Test_ResolveTieBreak(t *testing.T) {
	local := newState(t, "local")

	peerA := newState(t, "peerA")
	mine(t, peerA, 2)
	srvA := peerServer(peerA)
	defer srvA.Close()

	peerB := newState(t, "peerB")
	mine(t, peerB, 2)
	srvB := peerServer(peerB)
	defer srvB.Close()

	if _, err := local.RegisterPeers([]string{srvA.URL, srvB.URL}); err != nil {
		t.Fatalf("Should be able to register peers: %s", err)
	}

	// Peers are visited in host order and ties don't update the candidate.
	first := peerA
	if local.RetrieveKnownHosts()[0] != local.RetrieveKnownPeers()[0].Host {
		t.Fatalf("Should visit peers in host order.")
	}
	if local.RetrieveKnownPeers()[0].Host == srvB.Listener.Addr().String() {
		first = peerB
	}

	replaced, err := local.Resolve(context.Background())
	if err != nil || !replaced {
		t.Fatalf("Should replace the chain, replaced[%v] err[%v].", replaced, err)
	}

	exp := first.RetrieveLatestBlock().Hash()
	if got := local.RetrieveLatestBlock().Hash(); got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should adopt the chain of the first peer in host order.")
	}
}

func Test_MineAfterReplace(t *testing.T) {
	local := newState(t, "local")
	local.QueueTransaction(database.NewTx("A", "B", 1))

	remote := newState(t, "remote")
	mine(t, remote, 2)
	srv := peerServer(remote)
	defer srv.Close()

	if _, err := local.RegisterPeers([]string{srv.URL}); err != nil {
		t.Fatalf("Should be able to register peers: %s", err)
	}

	if replaced, err := local.Resolve(context.Background()); err != nil || !replaced {
		t.Fatalf("Should replace the chain, replaced[%v] err[%v].", replaced, err)
	}

	block, err := local.MineNewBlock(context.Background())
	if err != nil {
		t.Fatalf("Should be able to mine on the new chain: %s", err)
	}

	if block.Index != 3 || len(block.Trans) != 2 {
		t.Logf("got: %+v", block)
		t.Fatalf("Should mine the pending transaction on top of the new chain.")
	}

	if !local.ValidateChain(local.RetrieveChain()) {
		t.Fatalf("Should have a valid chain after mining.")
	}
}
