package state

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Transact sends amount from the node wallet to the recipient. If the node
// wallet already has a pending transaction, a clone of it is updated with the
// new transfer and replaces it. Otherwise a new transaction is created from
// the node wallet's balance on the chain. The transaction is shared with the
// network.
func (s *State) Transact(recipient string, amount uint64) (*database.Transaction, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	var tx *database.Transaction

	switch existing, exists := s.mempool.Existing(s.minerWallet.Address()); {
	case exists:
		tx = existing.Clone()
		if err := tx.Update(s.minerWallet, recipient, amount); err != nil {
			return nil, err
		}

	default:
		var err error
		tx, err = s.minerWallet.CreateTransaction(recipient, amount, s.RetrieveChain())
		if err != nil {
			return nil, err
		}
	}

	if err := s.upsert(tx); err != nil {
		return nil, err
	}

	s.evHandler("state: Transact: tx[%s]: to[%s]: amount[%d]", tx, recipient, amount)

	s.Worker.SignalShareTx(tx)

	return tx, nil
}

// UpsertWalletTransaction accepts a transaction signed by an external wallet
// for inclusion. The transaction is shared with the network.
func (s *State) UpsertWalletTransaction(tx *database.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}

	if err := s.upsert(tx); err != nil {
		return err
	}

	s.evHandler("state: UpsertWalletTransaction: tx[%s]: from[%s]", tx, tx.Input.Address)

	s.Worker.SignalShareTx(tx)

	return nil
}

// UpsertNodeTransaction accepts a transaction from a node for inclusion.
func (s *State) UpsertNodeTransaction(tx *database.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}

	if err := s.upsert(tx); err != nil {
		return err
	}

	s.evHandler("state: UpsertNodeTransaction: tx[%s]: from[%s]", tx, tx.Input.Address)

	return nil
}

// UpsertMempool replaces the content of the mempool with the valid
// transactions from a peer's mempool. It returns the number kept.
func (s *State) UpsertMempool(pool map[string]*database.Transaction) int {
	valid := make(map[string]*database.Transaction, len(pool))
	for _, tx := range pool {
		if err := validateTransaction(tx); err != nil {
			s.evHandler("state: UpsertMempool: skipping tx[%s]: %s", tx, err)
			continue
		}
		valid[tx.Input.Address] = tx
	}

	s.mempool.SetMap(valid)

	return len(valid)
}

// =============================================================================

// upsert places the transaction in the mempool and starts a mining operation
// when the node mines on every new transaction.
func (s *State) upsert(tx *database.Transaction) error {
	if _, err := s.mempool.Upsert(tx); err != nil {
		return err
	}

	if s.autoMine {
		s.Worker.SignalStartMining()
	}

	return nil
}

// validateTransaction checks a transaction received from outside the node.
func validateTransaction(tx *database.Transaction) error {
	if tx.IsReward() {
		return fmt.Errorf("%w: reward transactions are only created by miners", database.ErrInvalidTransaction)
	}

	if tx.Count < 1 {
		return fmt.Errorf("%w: count must be at least 1", database.ErrInvalidTransaction)
	}

	return tx.Validate()
}
