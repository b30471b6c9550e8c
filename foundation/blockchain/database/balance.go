package database

import "github.com/ardanlabs/powchain/foundation/blockchain/genesis"

// CalculateBalance returns the balance of the address by walking the chain
// from the newest block to the oldest. Every output paid to the address is
// added up until a block is found where the address sent a transaction. The
// change it kept in that block is the floor for its balance, so the walk
// stops there. An address that never sent a transaction also owns the
// starting balance.
func CalculateBalance(chain []Block, address string) uint64 {
	var hasConductedTransaction bool
	var outputsTotal uint64

	for i := len(chain) - 1; i > 0; i-- {
		for _, tx := range chain[i].Data {
			if tx.Input.Address == address {
				hasConductedTransaction = true
			}

			if amount, exists := tx.OutputMap[address]; exists {
				outputsTotal += amount
			}
		}

		if hasConductedTransaction {
			break
		}
	}

	if hasConductedTransaction {
		return outputsTotal
	}

	return genesis.StartingBalance + outputsTotal
}
