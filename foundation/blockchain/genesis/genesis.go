// Package genesis maintains the fixed parameters every node on the chain
// must agree on.
package genesis

import "time"

// These are the consensus values for the chain. Changing any of them forks
// the node off the network.
const (
	MineRate          = 1000 // Target time between blocks, in milliseconds.
	InitialDifficulty = 3    // Difficulty of the genesis block, in leading zero bits.
	MiningReward      = 50   // Base reward paid to the miner of every block.
	StartingBalance   = 1000 // Balance of an address that has never sent a transaction.
	Fee               = 2    // Charged to the sender per transfer operation, paid to the miner.
)

// Values of the fixed genesis block.
const (
	Timestamp int64  = 1583452800000 // 2020-03-06 00:00:00 UTC.
	LastHash  string = "___"
	Hash      string = "hash"
)

// RewardAddress is the sender address used by the input of every reward
// transaction. No key pair exists for it.
const RewardAddress = "*authorized-reward*"

// =============================================================================

// Genesis represents the chain parameters in a form that can be shared
// with clients.
type Genesis struct {
	Date              time.Time `json:"date"`
	MineRate          int64     `json:"mine_rate_ms"`
	InitialDifficulty uint      `json:"initial_difficulty"`
	MiningReward      uint64    `json:"mining_reward"`
	StartingBalance   uint64    `json:"starting_balance"`
	Fee               uint64    `json:"fee"`
	RewardAddress     string    `json:"reward_address"`
}

// Get returns the chain parameters.
func Get() Genesis {
	return Genesis{
		Date:              time.UnixMilli(Timestamp).UTC(),
		MineRate:          MineRate,
		InitialDifficulty: InitialDifficulty,
		MiningReward:      MiningReward,
		StartingBalance:   StartingBalance,
		Fee:               Fee,
		RewardAddress:     RewardAddress,
	}
}
