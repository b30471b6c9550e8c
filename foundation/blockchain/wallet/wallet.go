// Package wallet owns a key pair and creates the transactions that key
// pair is allowed to sign.
package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet represents a key pair able to authorize transactions. It implements
// the database.Signer interface.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    string
}

// New constructs a wallet with a freshly generated key pair.
func New() (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// Load constructs a wallet from a private key file.
func Load(path string) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %q: %w", path, err)
	}

	return FromPrivateKey(privateKey), nil
}

// FromPrivateKey constructs a wallet for an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		privateKey: privateKey,
		address:    signature.Address(privateKey.PublicKey),
	}
}

// Save writes the private key of the wallet to the specified file.
func (w *Wallet) Save(path string) error {
	return crypto.SaveECDSA(path, w.privateKey)
}

// Address returns the public key of the wallet, used as its address.
func (w *Wallet) Address() string {
	return w.address
}

// Sign signs the value with the wallet's private key.
func (w *Wallet) Sign(value any) (string, error) {
	return signature.Sign(value, w.privateKey)
}

// Balance returns the balance of the wallet on the specified chain.
func (w *Wallet) Balance(chain []database.Block) uint64 {
	return database.CalculateBalance(chain, w.address)
}

// CreateTransaction constructs a transaction sending amount to the recipient,
// funded by the balance the wallet holds on the specified chain.
func (w *Wallet) CreateTransaction(recipient string, amount uint64, chain []database.Block) (*database.Transaction, error) {
	return database.NewTransaction(w, w.Balance(chain), recipient, amount)
}
