// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and sharing data with peers.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalShareTx(tx *database.Transaction)
	SignalShareChain()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	MinerWallet *wallet.Wallet
	Host        string
	KnownPeers  *peer.PeerSet
	AutoMine    bool
	EvHandler   EventHandler
}

// State manages the blockchain held in memory.
type State struct {
	minerWallet *wallet.Wallet
	host        string
	autoMine    bool
	evHandler   EventHandler

	// mu serializes every writer of the chain across reading the tip,
	// deciding and swapping. Readers go through the atomic pointer.
	mu    sync.Mutex
	chain atomic.Pointer[[]database.Block]

	// txMu serializes the node wallet so two transfers never update
	// clones of the same pending transaction.
	txMu sync.Mutex

	knownPeers *peer.PeerSet
	genesis    genesis.Genesis
	mempool    *mempool.Mempool

	Worker Worker
}

// New constructs a new blockchain holding only the genesis block.
func New(cfg Config) (*State, error) {

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

	state := State{
		minerWallet: cfg.MinerWallet,
		host:        cfg.Host,
		autoMine:    cfg.AutoMine,
		evHandler:   ev,

		knownPeers: knownPeers,
		genesis:    genesis.Get(),
		mempool:    mempool.New(ev),
	}

	chain := []database.Block{database.Genesis()}
	state.chain.Store(&chain)

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
