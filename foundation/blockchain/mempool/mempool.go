// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// ErrBeingMined is returned when an update arrives for a pending transaction
// that the running mining cycle has taken.
var ErrBeingMined = fmt.Errorf("%w: pending transaction is being mined, retry once the block is added", database.ErrInput)

// Mempool represents a cache of pending transactions organized by the
// address of the sender. A sender has at most one pending transaction.
type Mempool struct {
	pool      map[string]*database.Transaction
	mining    map[string]struct{}
	mu        sync.RWMutex
	evHandler func(v string, args ...any)
}

// New constructs a new mempool. The event handler receives a message for
// every invalid transaction skipped by ValidTransactions.
func New(evHandler func(v string, args ...any)) *Mempool {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Mempool{
		pool:      make(map[string]*database.Transaction),
		mining:    make(map[string]struct{}),
		evHandler: ev,
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces the pending transaction of the sender. The
// transaction must not be modified once it is in the pool. A new version of
// a transaction taken by the running mining cycle is refused.
func (mp *Mempool) Upsert(tx *database.Transaction) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.mining[tx.ID]; exists {
		if mp.pool[tx.Input.Address] != tx {
			return len(mp.pool), fmt.Errorf("%w: tx[%s]", ErrBeingMined, tx)
		}
	}

	mp.pool[tx.Input.Address] = tx

	return len(mp.pool), nil
}

// Existing returns the pending transaction for the sender address.
func (mp *Mempool) Existing(address string) (*database.Transaction, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	tx, exists := mp.pool[address]
	return tx, exists
}

// SetMap replaces the content of the pool, used when syncing the pool
// from a peer.
func (mp *Mempool) SetMap(pool map[string]*database.Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]*database.Transaction, len(pool))
	for address, tx := range pool {
		mp.pool[address] = tx
	}
}

// Copy returns a copy of the pool keyed by sender address.
func (mp *Mempool) Copy() map[string]*database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make(map[string]*database.Transaction, len(mp.pool))
	for address, tx := range mp.pool {
		cpy[address] = tx
	}
	return cpy
}

// ValidTransactions returns the pending transactions that pass validation.
// Invalid ones are skipped and reported, but stay in the pool.
func (mp *Mempool) ValidTransactions() []*database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.valid()
}

// Take starts a mining cycle. It returns the valid pending transactions and
// every transaction in the pool at that moment. Until Release is called,
// Upsert refuses new versions of the valid ones.
func (mp *Mempool) Take() ([]*database.Transaction, map[string]*database.Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := mp.valid()
	for _, tx := range txs {
		mp.mining[tx.ID] = struct{}{}
	}

	taken := make(map[string]*database.Transaction, len(mp.pool))
	for address, tx := range mp.pool {
		taken[address] = tx
	}

	return txs, taken
}

// Release ends the mining cycle started by Take. When the block was mined
// the taken transactions are deleted from the pool, except for senders whose
// entry was replaced during the cycle. It returns the number deleted.
func (mp *Mempool) Release(taken map[string]*database.Transaction, mined bool) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.mining = make(map[string]struct{})

	if !mined {
		return 0
	}

	return mp.deleteMatching(taken)
}

// RemoveIncluded deletes every pending transaction whose id already appears
// in a block of the specified chain.
func (mp *Mempool) RemoveIncluded(chain []database.Block) int {
	ids := make(map[string]struct{})
	for _, block := range chain {
		for _, tx := range block.Data {
			ids[tx.ID] = struct{}{}
		}
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	var removed int
	for address, tx := range mp.pool {
		if _, exists := ids[tx.ID]; exists {
			delete(mp.pool, address)
			removed++
		}
	}

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]*database.Transaction)
}

// =============================================================================

// valid returns the pending transactions that pass validation. The caller
// must hold the lock.
func (mp *Mempool) valid() []*database.Transaction {
	txs := make([]*database.Transaction, 0, len(mp.pool))
	for address, tx := range mp.pool {
		if err := tx.Validate(); err != nil {
			mp.evHandler("mempool: ValidTransactions: skipping tx[%s] from[%s]: %s", tx, address, err)
			continue
		}
		txs = append(txs, tx)
	}

	return txs
}

// deleteMatching deletes the entries still holding the same transaction.
// The caller must hold the write lock.
func (mp *Mempool) deleteMatching(txs map[string]*database.Transaction) int {
	var deleted int
	for address, tx := range txs {
		if mp.pool[address] == tx {
			delete(mp.pool, address)
			deleted++
		}
	}

	return deleted
}
