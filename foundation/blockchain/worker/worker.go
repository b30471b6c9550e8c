// Package worker implements mining, chain and transaction sharing, and the
// startup sync for the blockchain.
package worker

import (
	"context"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/pubsub"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state        *state.State
	bus          *pubsub.PubSub
	wg           sync.WaitGroup
	shut         chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
	startMining  chan bool
	chainSharing chan bool
	txSharing    chan *database.Transaction
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, bus *pubsub.PubSub, evHandler state.EventHandler) {
	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:        st,
		bus:          bus,
		shut:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		startMining:  make(chan bool, 1),
		chainSharing: make(chan bool, 1),
		txSharing:    make(chan *database.Transaction, maxTxShareRequests),
		evHandler:    evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.shareChainOperations,
		w.shareTxOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work. A proof of work search
// in progress is abandoned.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: cancel mining")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalShareChain signals the current chain should be shared with the
// known peers. Signals arriving while one is pending are folded into it
// since the chain is read when it is shared.
func (w *Worker) SignalShareChain() {
	select {
	case w.chainSharing <- true:
	default:
	}
	w.evHandler("worker: SignalShareChain: share chain signaled")
}

// SignalShareTx signals a share transaction operation. If
// maxTxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(tx *database.Transaction) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
