package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	senderHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	recipient    = "0xf01813e4b85e178a83e29b8e7bf26bd830a25f32"
)

// fakeNode serves the part of the public API the send command uses.
type fakeNode struct {
	mu   sync.Mutex
	pool map[string]*database.Transaction
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/blocks":
		json.NewEncoder(w).Encode([]database.Block{database.Genesis()})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/tx/pool/"):
		tx, exists := n.pool[strings.TrimPrefix(r.URL.Path, "/v1/tx/pool/")]
		if !exists {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(tx)

	case r.Method == http.MethodPost && r.URL.Path == "/v1/tx/submit":
		var tx database.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := tx.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.pool[tx.Input.Address] = &tx
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func Test_SendWithDetails(t *testing.T) {
	node := fakeNode{pool: make(map[string]*database.Transaction)}
	srv := httptest.NewServer(&node)
	defer srv.Close()

	url = srv.URL
	to = recipient

	pk, err := crypto.HexToECDSA(senderHexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load private key: %v", failed, err)
	}
	w := wallet.FromPrivateKey(pk)

	t.Log("Given the need to send from a local wallet through a node.")
	{
		amount = 40
		tx, err := sendWithDetails(w)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to send a new transaction: %v", failed, err)
		}
		if tx.Count != 1 || tx.OutputMap[w.Address()] != 958 {
			t.Fatalf("\t%s\tShould create a new transaction : count %d, change %d", failed, tx.Count, tx.OutputMap[w.Address()])
		}
		t.Logf("\t%s\tShould create a new transaction.", success)

		amount = 8
		tx2, err := sendWithDetails(w)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to send a second transfer: %v", failed, err)
		}
		if tx2.ID != tx.ID || tx2.Count != 2 || tx2.OutputMap[recipient] != 48 {
			t.Fatalf("\t%s\tShould update the pending transaction : count %d, paid %d", failed, tx2.Count, tx2.OutputMap[recipient])
		}
		t.Logf("\t%s\tShould update the pending transaction.", success)

		amount = 5000
		if _, err := sendWithDetails(w); err == nil {
			t.Fatalf("\t%s\tShould fail to send more than the change left.", failed)
		}
		t.Logf("\t%s\tShould fail to send more than the change left.", success)
	}
}
