package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no valid transactions.
var ErrNoTransactions = errors.New("no valid transactions in mempool")

// =============================================================================

// MineTransactions runs one mining cycle. The valid transactions in the
// mempool plus a reward for the miner are mined into a new block and the new
// chain is shared with the network. The transactions the cycle took are then
// removed from the mempool; anything pooled during the search stays. When
// there are no valid transactions the mempool is cleared and no block is mined.
func (s *State) MineTransactions(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineTransactions: MINING: collect valid transactions")

	txs, taken := s.mempool.Take()
	if len(txs) == 0 {
		s.mempool.Release(taken, false)
		s.evHandler("state: MineTransactions: MINING: no valid transactions: pool[%d]", s.mempool.Count())
		s.mempool.Truncate()
		return database.Block{}, ErrNoTransactions
	}

	var totalTransactionCount uint64
	for _, tx := range txs {
		totalTransactionCount += tx.Count
	}

	s.evHandler("state: MineTransactions: MINING: reward: txs[%d]: transfers[%d]", len(txs), totalTransactionCount)

	data := make([]*database.Transaction, len(txs), len(txs)+1)
	copy(data, txs)
	data = append(data, database.NewRewardTransaction(s.minerWallet.Address(), totalTransactionCount))

	s.evHandler("state: MineTransactions: MINING: perform POW")

	block, err := s.AddBlock(ctx, data)
	if err != nil {
		s.mempool.Release(taken, false)
		return database.Block{}, err
	}

	removed := s.mempool.Release(taken, true)

	s.evHandler("state: MineTransactions: MINING: share chain: removed txs[%d]: pool[%d]", removed, s.mempool.Count())

	s.Worker.SignalShareChain()

	return block, nil
}
