package public

// transact is the request to send an amount from the node wallet.
type transact struct {
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"required,gt=0"`
}

// balance is the balance of an address on the current chain.
type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

// chainLength is the number of blocks in the chain, genesis included.
type chainLength struct {
	Length int `json:"length"`
}
