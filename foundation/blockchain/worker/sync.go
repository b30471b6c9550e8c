package worker

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Sync replaces the chain with the longest valid chain held by the known
// peers and loads their mempools.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	pool := make(map[string]*database.Transaction)

	for _, peer := range w.state.RetrieveKnownPeers() {

		// Retrieve the chain from the peer.
		chain, err := w.state.NetRequestPeerChain(peer)
		if err != nil {
			w.evHandler("worker: sync: retrievePeerChain: %s: ERROR: %s", peer.Host, err)
			continue
		}

		if err := w.state.ProcessPeerChain(chain); err != nil {
			w.evHandler("worker: sync: processPeerChain: %s: %s", peer.Host, err)
		}

		// Retrieve the mempool from the peer.
		peerPool, err := w.state.NetRequestPeerMempool(peer)
		if err != nil {
			w.evHandler("worker: sync: retrievePeerMempool: %s: ERROR: %s", peer.Host, err)
			continue
		}
		for address, tx := range peerPool {
			pool[address] = tx
		}
	}

	if len(pool) > 0 {
		kept := w.state.UpsertMempool(pool)
		w.evHandler("worker: sync: mempool: received[%d]: kept[%d]", len(pool), kept)
	}
}
