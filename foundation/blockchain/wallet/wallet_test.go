package wallet_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_SaveLoad(t *testing.T) {
	t.Log("Given the need to keep a wallet key on disk.")
	{
		w, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a wallet.", success)

		path := filepath.Join(t.TempDir(), "kennedy.ecdsa")
		if err := w.Save(path); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to save the key.", success)

		loaded, err := wallet.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the key: %v", failed, err)
		}

		if loaded.Address() != w.Address() {
			t.Logf("\t%s\tgot: %s", failed, loaded.Address())
			t.Logf("\t%s\texp: %s", failed, w.Address())
			t.Fatalf("\t%s\tShould load the same address.", failed)
		}
		t.Logf("\t%s\tShould load the same address.", success)
	}
}

func Test_CreateTransaction(t *testing.T) {
	sender, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
	}
	recipient, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
	}

	t.Log("Given the need to spend from a wallet.")
	{
		t.Logf("\tTest 0:\tWhen the wallet has its starting balance.")
		{
			chain := []database.Block{database.Genesis()}

			tx, err := sender.CreateTransaction(recipient.Address(), 100, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the transaction: %v", failed, err)
			}

			if tx.Input.Amount != genesis.StartingBalance || tx.Input.Address != sender.Address() {
				t.Fatalf("\t%s\tTest 0:\tShould fund the transaction from the chain balance.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould fund the transaction from the chain balance.", success)

			if err := tx.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be signed by the wallet: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be signed by the wallet.", success)
		}

		t.Logf("\tTest 1:\tWhen the wallet spent most of its balance.")
		{
			spent, err := sender.CreateTransaction(recipient.Address(), 900, []database.Block{database.Genesis()})
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create the transaction: %v", failed, err)
			}
			chain := []database.Block{database.Genesis(), {Data: []*database.Transaction{spent}}}

			if got := sender.Balance(chain); got != 98 {
				t.Logf("\t%s\tTest 1:\tgot: %d", failed, got)
				t.Logf("\t%s\tTest 1:\texp: %d", failed, 98)
				t.Fatalf("\t%s\tTest 1:\tShould compute the balance from the chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould compute the balance from the chain.", success)

			if _, err := sender.CreateTransaction(recipient.Address(), 97, chain); !errors.Is(err, database.ErrInsufficientFunds) {
				t.Logf("\t%s\tTest 1:\tgot: %v", failed, err)
				t.Fatalf("\t%s\tTest 1:\tShould reject spending more than the balance.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject spending more than the balance.", success)
		}
	}
}
