package database

import (
	"context"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Block represents a group of transactions sealed by a proof of work and
// linked to the block before it.
type Block struct {
	TimeStamp  int64          `json:"timestamp"`  // Time the block was mined, in milliseconds.
	LastHash   string         `json:"lastHash"`   // Hash of the previous block in the chain.
	Hash       string         `json:"hash"`       // Hash of the fields of this block.
	Data       []*Transaction `json:"data"`       // Transactions sealed into this block.
	Nonce      uint64         `json:"nonce"`      // Value identified to solve the hash solution.
	Difficulty uint           `json:"difficulty"` // Number of leading zero bits needed to solve the hash solution.
}

// Genesis returns the fixed first block of every chain. It is never mined.
func Genesis() Block {
	return Block{
		TimeStamp:  genesis.Timestamp,
		LastHash:   genesis.LastHash,
		Hash:       genesis.Hash,
		Data:       []*Transaction{},
		Nonce:      0,
		Difficulty: genesis.InitialDifficulty,
	}
}

// MineBlock constructs a new Block on top of lastBlock and performs the work
// to find a nonce that solves the proof of work puzzle. The search has no
// upper bound. Cancelling the context is the only way to stop it early and
// is reserved for shutting the node down.
func MineBlock(ctx context.Context, lastBlock Block, data []*Transaction, evHandler func(v string, args ...any)) (Block, error) {
	evHandler("database: MineBlock: MINING: started: prevBlk[%s]: txs[%d]", lastBlock.Hash, len(data))
	defer evHandler("database: MineBlock: MINING: completed")

	nb := Block{
		LastHash: lastBlock.Hash,
		Data:     data,
	}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			evHandler("database: MineBlock: MINING: attempts[%d]", attempts)

			if ctx.Err() != nil {
				evHandler("database: MineBlock: MINING: CANCELLED")
				return Block{}, ctx.Err()
			}
		}

		// Every attempt retargets the difficulty against the current time.
		nb.TimeStamp = time.Now().UnixMilli()
		nb.Difficulty = AdjustDifficulty(lastBlock, nb.TimeStamp)
		nb.Hash = nb.computeHash()

		if isHashSolved(nb.Difficulty, nb.Hash) {
			evHandler("database: MineBlock: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: difficulty[%d]: attempts[%d]", nb.LastHash, nb.Hash, nb.Difficulty, attempts)
			return nb, nil
		}

		nb.Nonce++
	}
}

// AdjustDifficulty returns the difficulty for a block mined at the specified
// time on top of lastBlock. Blocks coming faster than the mine rate raise the
// difficulty by one, slower blocks lower it by one. It never drops below one.
func AdjustDifficulty(lastBlock Block, timeStamp int64) uint {
	difficulty := lastBlock.Difficulty

	if timeStamp-lastBlock.TimeStamp < genesis.MineRate {
		return difficulty + 1
	}

	if difficulty <= 1 {
		return 1
	}

	return difficulty - 1
}

// HashBlock returns the hash for the specified block fields.
func HashBlock(timeStamp int64, lastHash string, data []*Transaction, nonce uint64, difficulty uint) string {
	return signature.Hash(timeStamp, lastHash, data, nonce, difficulty)
}

// computeHash returns the hash of the fields of the block.
func (b Block) computeHash() string {
	return HashBlock(b.TimeStamp, b.LastHash, b.Data, b.Nonce, b.Difficulty)
}

// isGenesis reports whether the block is identical to the genesis block.
func (b Block) isGenesis() bool {
	gen := Genesis()

	return b.TimeStamp == gen.TimeStamp &&
		b.LastHash == gen.LastHash &&
		b.Hash == gen.Hash &&
		b.Nonce == gen.Nonce &&
		b.Difficulty == gen.Difficulty &&
		len(b.Data) == 0
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading zero bits.
func isHashSolved(difficulty uint, hash string) bool {
	return signature.LeadingZeroBits(hash) >= difficulty
}
