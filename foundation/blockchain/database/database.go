// Package database handles all the lower level support for the blockchain:
// the block and transaction data model, the proof of work, and the rules
// used to validate a chain of blocks.
package database

import (
	"fmt"
)

// ValidateChain checks the structure of the chain. The chain must start with
// the genesis block and every other block must link to the block before it,
// hash to its own hash, and not move the difficulty by more than one.
func ValidateChain(chain []Block) error {
	if len(chain) == 0 || !chain[0].isGenesis() {
		return ErrInvalidGenesis
	}

	for i := 1; i < len(chain); i++ {
		block := chain[i]
		prev := chain[i-1]

		if block.LastHash != prev.Hash {
			return fmt.Errorf("%w: blk[%d]: last hash doesn't match the previous block, got %s, exp %s", ErrInvalidBlock, i, block.LastHash, prev.Hash)
		}

		if hash := block.computeHash(); block.Hash != hash {
			return fmt.Errorf("%w: blk[%d]: hash doesn't match block fields, got %s, exp %s", ErrInvalidBlock, i, block.Hash, hash)
		}

		if diff(block.Difficulty, prev.Difficulty) > 1 {
			return fmt.Errorf("%w: blk[%d]: difficulty jumped, parent %d, block %d", ErrInvalidBlock, i, prev.Difficulty, block.Difficulty)
		}
	}

	return nil
}

// IsValidChain reports whether the chain passes ValidateChain.
func IsValidChain(chain []Block) bool {
	return ValidateChain(chain) == nil
}

// ValidateTransactionData checks the transactions of every block after the
// genesis block. Each block must hold exactly one reward that pays the mining
// reward plus every fee charged in the block, and every other transaction
// must be valid and appear only once.
func ValidateTransactionData(chain []Block, evHandler func(v string, args ...any)) error {
	for i := 1; i < len(chain); i++ {
		block := chain[i]

		evHandler("database: ValidateTransactionData: validate: blk[%d]: txs[%d]", i, len(block.Data))

		// The reward transaction has a count of 1 which is not a fee
		// paying transfer. The count only reaches 0 for a block without a
		// reward, where it is never used.
		var totalTransactionCount uint64
		for _, tx := range block.Data {
			totalTransactionCount += tx.Count
		}
		if totalTransactionCount > 0 {
			totalTransactionCount--
		}

		// Transactions are tracked by identity, not content.
		seen := make(map[*Transaction]struct{})
		var rewards int

		for _, tx := range block.Data {
			if tx.IsReward() {
				rewards++
				if rewards > 1 {
					return fmt.Errorf("%w: blk[%d]", ErrMultipleRewards, i)
				}

				if tx.Count != 1 {
					return fmt.Errorf("%w: blk[%d]: reward count %d", ErrInvalidReward, i, tx.Count)
				}

				exp := RewardAmount(totalTransactionCount)
				total, ok := tx.OutputMap.Total()
				if len(tx.OutputMap) != 1 || !ok || total != exp {
					return fmt.Errorf("%w: blk[%d]: got %d, exp %d", ErrInvalidReward, i, total, exp)
				}

				continue
			}

			if err := tx.Validate(); err != nil {
				return fmt.Errorf("blk[%d]: tx[%s]: %w", i, tx.ID, err)
			}

			if _, exists := seen[tx]; exists {
				return fmt.Errorf("%w: blk[%d]: tx[%s]", ErrDuplicateTransaction, i, tx.ID)
			}
			seen[tx] = struct{}{}
		}
	}

	return nil
}

// ValidTransactionData reports whether the chain passes ValidateTransactionData.
// Failures are reported to the event handler.
func ValidTransactionData(chain []Block, evHandler func(v string, args ...any)) bool {
	if err := ValidateTransactionData(chain, evHandler); err != nil {
		evHandler("database: ValidTransactionData: ERROR: %s", err)
		return false
	}
	return true
}

// =============================================================================

// diff returns the absolute difference between two difficulties.
func diff(a, b uint) uint {
	if a > b {
		return a - b
	}
	return b - a
}
