package database

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/google/uuid"
)

// Signer represents the behavior required to authorize a transaction. A
// wallet is the only implementation that can produce valid signatures for
// its own address.
type Signer interface {
	Address() string
	Sign(value any) (string, error)
}

// =============================================================================

// OutputMap maps a recipient address to the amount it receives. The sender
// receives its change in the same map.
type OutputMap map[string]uint64

// Total returns the sum of all the outputs. It reports false when the sum
// does not fit in a uint64.
func (om OutputMap) Total() (uint64, bool) {
	var total, carry uint64
	for _, amount := range om {
		total, carry = bits.Add64(total, amount, 0)
		if carry != 0 {
			return 0, false
		}
	}
	return total, true
}

// Input attests the sender authorized the outputs of a transaction.
type Input struct {
	TimeStamp int64  `json:"timestamp"` // Time the outputs were signed, in milliseconds.
	Amount    uint64 `json:"amount"`    // Sender balance at the time of signing.
	Address   string `json:"address"`   // Sender public key.
	Signature string `json:"signature"` // Signature over the output map.
}

// RewardInput is the fixed input used by every reward transaction.
var RewardInput = Input{
	Address: genesis.RewardAddress,
}

// Transaction represents a transfer of value from one sender to one or more
// recipients.
type Transaction struct {
	ID        string    `json:"id"`
	Count     uint64    `json:"count"` // Number of transfers folded into this transaction.
	OutputMap OutputMap `json:"outputMap"`
	Input     Input     `json:"input"`
}

// NewTransaction constructs a transaction moving amount from the sender to
// the recipient. The balance is the sender's current balance on the chain.
func NewTransaction(sender Signer, balance uint64, recipient string, amount uint64) (*Transaction, error) {
	if amount < 1 {
		return nil, ErrInvalidAmount
	}

	if recipient == sender.Address() {
		return nil, ErrSelfTransfer
	}

	if amount > balance || balance-amount < genesis.Fee {
		return nil, fmt.Errorf("%w: balance %d, needed %d", ErrInsufficientFunds, balance, amount+genesis.Fee)
	}

	tx := Transaction{
		ID:    newID(),
		Count: 1,
		OutputMap: OutputMap{
			recipient:        amount,
			sender.Address(): balance - amount - genesis.Fee,
		},
	}

	input, err := newInput(sender, balance, tx.OutputMap)
	if err != nil {
		return nil, err
	}
	tx.Input = input

	return &tx, nil
}

// NewRewardTransaction constructs the transaction paying the miner of a
// block. The totalTransactionCount is the number of transfers in the block
// the reward is paid for, each one contributing its fee.
func NewRewardTransaction(minerAddress string, totalTransactionCount uint64) *Transaction {
	return &Transaction{
		ID:    newID(),
		Count: 1,
		OutputMap: OutputMap{
			minerAddress: RewardAmount(totalTransactionCount),
		},
		Input: RewardInput,
	}
}

// RewardAmount returns the amount the miner is owed for a block holding the
// specified number of transfers.
func RewardAmount(totalTransactionCount uint64) uint64 {
	return genesis.MiningReward + genesis.Fee*totalTransactionCount
}

// Update folds another transfer from the same sender into the transaction.
// The amount is checked against the change the sender has left in this
// transaction. On error the transaction is left untouched.
func (tx *Transaction) Update(sender Signer, recipient string, amount uint64) error {
	if amount < 1 {
		return ErrInvalidAmount
	}

	address := sender.Address()
	if recipient == address {
		return ErrSelfTransfer
	}

	remaining := tx.OutputMap[address]
	if amount > remaining || remaining-amount < genesis.Fee {
		return fmt.Errorf("%w: remaining %d, needed %d", ErrAmountExceedsBalance, remaining, amount+genesis.Fee)
	}

	// Build the new outputs on a copy so a signing failure leaves the
	// transaction as it was.
	outputMap := tx.OutputMap.clone()
	outputMap[recipient] += amount
	outputMap[address] = remaining - amount - genesis.Fee

	input, err := newInput(sender, tx.Input.Amount, outputMap)
	if err != nil {
		return err
	}

	tx.Count++
	tx.OutputMap = outputMap
	tx.Input = input

	return nil
}

// Validate verifies the amounts of the transaction add up and the outputs
// were signed by the sender. It does not check the sender's balance on
// the chain.
func (tx *Transaction) Validate() error {
	outputTotal, ok := tx.OutputMap.Total()
	if !ok {
		return fmt.Errorf("%w: from %s: outputs overflow", ErrInvalidTransaction, tx.Input.Address)
	}

	overflow, fees := bits.Mul64(genesis.Fee, tx.Count)
	spent, carry := bits.Add64(outputTotal, fees, 0)
	if overflow != 0 || carry != 0 || tx.Input.Amount != spent {
		return fmt.Errorf("%w: from %s: input %d, outputs %d, count %d", ErrInvalidTransaction, tx.Input.Address, tx.Input.Amount, outputTotal, tx.Count)
	}

	if err := signature.Verify(tx.OutputMap, tx.Input.Address, tx.Input.Signature); err != nil {
		return fmt.Errorf("%w: from %s: %s", ErrInvalidSignature, tx.Input.Address, err)
	}

	return nil
}

// IsReward reports whether this transaction pays a mining reward.
func (tx *Transaction) IsReward() bool {
	return tx.Input.Address == RewardInput.Address
}

// Clone returns a deep copy of the transaction that can be updated without
// affecting the original.
func (tx *Transaction) Clone() *Transaction {
	cpy := *tx
	cpy.OutputMap = tx.OutputMap.clone()
	return &cpy
}

// String implements the fmt.Stringer interface for logging.
func (tx *Transaction) String() string {
	return fmt.Sprintf("%s:%d", tx.ID, tx.Count)
}

// ValidTransaction reports whether the transaction passes Validate.
func ValidTransaction(tx *Transaction) bool {
	return tx.Validate() == nil
}

// =============================================================================

// newInput signs the output map on behalf of the sender.
func newInput(sender Signer, balance uint64, outputMap OutputMap) (Input, error) {
	sig, err := sender.Sign(outputMap)
	if err != nil {
		return Input{}, fmt.Errorf("signing outputs: %w", err)
	}

	input := Input{
		TimeStamp: time.Now().UnixMilli(),
		Amount:    balance,
		Address:   sender.Address(),
		Signature: sig,
	}

	return input, nil
}

// newID returns a time based unique id for a transaction.
func newID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// clone returns a copy of the output map.
func (om OutputMap) clone() OutputMap {
	cpy := make(OutputMap, len(om))
	for address, amount := range om {
		cpy[address] = amount
	}
	return cpy
}
