package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// AddBlock mines a block holding the data on top of the current tip and
// appends it to the chain. The lock is held for the whole proof of work so
// a replacement can't land between reading the tip and appending.
func (s *State) AddBlock(ctx context.Context, data []*database.Transaction) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := *s.chain.Load()

	block, err := database.MineBlock(ctx, chain[len(chain)-1], data, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	newChain := make([]database.Block, len(chain), len(chain)+1)
	copy(newChain, chain)
	newChain = append(newChain, block)
	s.chain.Store(&newChain)

	s.evHandler("state: AddBlock: blk[%d]: hash[%s]", len(newChain)-1, block.Hash)
	s.blockEvent(block)

	return block, nil
}

// ReplaceChain swaps the chain for the specified one if it is longer and
// valid. When validateTransactions is true the transactions held by the
// chain are checked as well. The onSuccess function is called after every
// check passes and before the swap. The current chain is kept on error.
func (s *State) ReplaceChain(chain []database.Block, validateTransactions bool, onSuccess func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := *s.chain.Load()

	if len(chain) <= len(current) {
		return fmt.Errorf("%w: got %d, current %d", database.ErrChainNotLonger, len(chain), len(current))
	}

	if err := database.ValidateChain(chain); err != nil {
		return err
	}

	if validateTransactions {
		if err := database.ValidateTransactionData(chain, s.evHandler); err != nil {
			return err
		}
	}

	if onSuccess != nil {
		onSuccess()
	}

	newChain := make([]database.Block, len(chain))
	copy(newChain, chain)
	s.chain.Store(&newChain)

	s.evHandler("state: ReplaceChain: replaced: blks[%d]: tip[%s]", len(newChain), newChain[len(newChain)-1].Hash)
	s.blockEvent(newChain[len(newChain)-1])

	return nil
}

// ProcessPeerChain takes a chain received from a peer and replaces the local
// chain with it if it is longer and valid. Pending transactions the new chain
// already holds are removed from the mempool.
func (s *State) ProcessPeerChain(chain []database.Block) error {
	s.evHandler("state: ProcessPeerChain: started: blks[%d]", len(chain))
	defer s.evHandler("state: ProcessPeerChain: completed")

	onSuccess := func() {
		removed := s.mempool.RemoveIncluded(chain)
		s.evHandler("state: ProcessPeerChain: removed included txs[%d]", removed)
	}

	return s.ReplaceChain(chain, true, onSuccess)
}

// =============================================================================

// blockEvent provides a specific event about a new tip of the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash, string(blockJSON))
}
