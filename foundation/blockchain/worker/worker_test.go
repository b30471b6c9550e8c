package worker_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/pubsub"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/powchain/foundation/blockchain/worker"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	minerHexKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	otherHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	recipient   = "0xf01813e4b85e178a83e29b8e7bf26bd830a25f32"
)

// node is a state with a bus and a worker, serving the private routes the
// peers call on a test server.
type node struct {
	state *state.State
	bus   *pubsub.PubSub
	srv   *httptest.Server
}

func newNode(t *testing.T, hexKey string, autoMine bool, knownPeers ...string) *node {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load private key: %v", failed, err)
	}

	var n node

	mux := http.NewServeMux()
	mux.HandleFunc(pubsub.Path, func(w http.ResponseWriter, r *http.Request) {
		var msg pubsub.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := n.bus.Deliver(msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/v1/node/chain", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(n.state.RetrieveChain())
	})
	mux.HandleFunc("/v1/node/tx/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(n.state.RetrieveMempool())
	})

	n.srv = httptest.NewServer(mux)
	t.Cleanup(n.srv.Close)

	host := strings.TrimPrefix(n.srv.URL, "http://")

	n.state, err = state.New(state.Config{
		MinerWallet: wallet.FromPrivateKey(pk),
		Host:        host,
		KnownPeers:  peer.Parse(append(knownPeers, host)),
		AutoMine:    autoMine,
		EvHandler:   t.Logf,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	n.bus = pubsub.New(n.state, t.Logf)

	worker.Run(n.state, n.bus, t.Logf)
	t.Cleanup(func() { n.state.Shutdown() })

	return &n
}

func (n *node) host() string {
	return strings.TrimPrefix(n.srv.URL, "http://")
}

// waitFor polls the condition until it holds or the timeout expires.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

// =============================================================================

func Test_AutoMine(t *testing.T) {
	n := newNode(t, minerHexKey, true)

	t.Log("Given the need to mine pending transactions as they arrive.")
	{
		if _, err := n.state.Transact(recipient, 100); err != nil {
			t.Fatalf("\t%s\tShould be able to transact: %v", failed, err)
		}

		if !waitFor(10*time.Second, func() bool { return n.state.QueryChainLength() == 2 }) {
			t.Fatalf("\t%s\tShould mine a block for the transaction.", failed)
		}
		t.Logf("\t%s\tShould mine a block for the transaction.", success)

		if got := n.state.QueryBalance(recipient); got != 1100 {
			t.Fatalf("\t%s\tShould credit the recipient : got %d, exp %d", failed, got, 1100)
		}
		t.Logf("\t%s\tShould credit the recipient.", success)

		if n.state.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould leave the mempool empty.", failed)
		}
		t.Logf("\t%s\tShould leave the mempool empty.", success)
	}
}

func Test_ShareChain(t *testing.T) {
	receiver := newNode(t, otherHexKey, false)
	miner := newNode(t, minerHexKey, true, receiver.host())

	t.Log("Given the need to share a mined block with the known peers.")
	{
		if _, err := miner.state.Transact(recipient, 10); err != nil {
			t.Fatalf("\t%s\tShould be able to transact: %v", failed, err)
		}

		shared := func() bool {
			return receiver.state.QueryChainLength() == 2 &&
				receiver.state.RetrieveLatestBlock().Hash == miner.state.RetrieveLatestBlock().Hash
		}
		if !waitFor(10*time.Second, shared) {
			t.Fatalf("\t%s\tShould replace the chain of the peer.", failed)
		}
		t.Logf("\t%s\tShould replace the chain of the peer.", success)
	}
}

func Test_Sync(t *testing.T) {
	source := newNode(t, otherHexKey, false)

	t.Log("Given the need to catch up with a peer at startup.")
	{
		if _, err := source.state.Transact(recipient, 10); err != nil {
			t.Fatalf("\t%s\tShould be able to transact: %v", failed, err)
		}
		if _, err := source.state.AddBlock(context.Background(), nil); err != nil {
			t.Fatalf("\t%s\tShould be able to add a block: %v", failed, err)
		}

		n := newNode(t, minerHexKey, false, source.host())

		if n.state.RetrieveLatestBlock().Hash != source.state.RetrieveLatestBlock().Hash {
			t.Fatalf("\t%s\tShould take the longer chain of the peer.", failed)
		}
		t.Logf("\t%s\tShould take the longer chain of the peer.", success)

		got, exists := n.state.QueryPendingTransaction(source.state.RetrieveMinerAddress())
		if !exists {
			t.Fatalf("\t%s\tShould load the mempool of the peer.", failed)
		}
		t.Logf("\t%s\tShould load the mempool of the peer.", success)

		if err := got.Validate(); err != nil {
			t.Fatalf("\t%s\tShould load a valid transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould load a valid transaction.", success)
	}
}
