package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryChainLength returns the number of blocks in the chain, genesis
// included.
func (s *State) QueryChainLength() int {
	return len(*s.chain.Load())
}

// QueryBalance returns the balance of the address on the current chain.
func (s *State) QueryBalance(address string) uint64 {
	return database.CalculateBalance(s.RetrieveChain(), address)
}

// QueryPendingTransaction returns the pending transaction of the sender.
func (s *State) QueryPendingTransaction(address string) (*database.Transaction, bool) {
	return s.mempool.Existing(address)
}

// QueryBlocksByAddress returns the blocks holding a transaction sent by or
// paying the specified address. If the address is empty, all blocks are
// returned.
func (s *State) QueryBlocksByAddress(address string) []database.Block {
	chain := s.RetrieveChain()
	if address == "" {
		return chain
	}

	var out []database.Block
	for _, block := range chain {
		for _, tx := range block.Data {
			if _, exists := tx.OutputMap[address]; exists || tx.Input.Address == address {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
