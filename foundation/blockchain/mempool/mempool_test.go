package mempool_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

var keys = []string{
	"fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959",
	"8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0",
	"9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93",
}

func newWallet(t *testing.T, hexKey string) *wallet.Wallet {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load private key: %v", failed, err)
	}
	return wallet.FromPrivateKey(pk)
}

func TestCRUD(t *testing.T) {
	chain := []database.Block{database.Genesis()}

	t.Log("Given the need to validate mempool api.")
	{
		t.Logf("\tTest 0:\tWhen handling a set of transactions.")
		{
			mp := mempool.New(t.Logf)

			var txs []*database.Transaction
			for _, key := range keys {
				w := newWallet(t, key)

				tx, err := w.CreateTransaction("0xrecipient", 10, chain)
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
				}
				txs = append(txs, tx)

				mp.Upsert(tx)
				t.Logf("\t%s\tTest 0:\tShould be able to add new transaction: %s", success, tx)
			}

			if mp.Count() != len(keys) {
				t.Logf("\t%s\tTest 0:\tgot: %d", failed, mp.Count())
				t.Logf("\t%s\tTest 0:\texp: %d", failed, len(keys))
				t.Fatalf("\t%s\tTest 0:\tShould have one transaction per sender.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have one transaction per sender.", success)

			for _, tx := range txs {
				got, exists := mp.Existing(tx.Input.Address)
				if !exists || got != tx {
					t.Fatalf("\t%s\tTest 0:\tShould find the existing transaction by address.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould find the existing transaction by address.", success)

			if _, exists := mp.Existing("0xunknown"); exists {
				t.Fatalf("\t%s\tTest 0:\tShould not find a transaction for an unknown address.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not find a transaction for an unknown address.", success)

			mp.Truncate()
			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould be able to truncate mempool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to truncate mempool.", success)
		}
	}
}

func TestUpsertReplacesSender(t *testing.T) {
	chain := []database.Block{database.Genesis()}
	w := newWallet(t, keys[0])

	t.Log("Given the need to keep one pending transaction per sender.")
	{
		t.Logf("\tTest 0:\tWhen a sender submits a second transaction.")
		{
			mp := mempool.New(t.Logf)

			first, err := w.CreateTransaction("0xfirst", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			second, err := w.CreateTransaction("0xsecond", 20, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}

			mp.Upsert(first)
			mp.Upsert(second)

			got, _ := mp.Existing(w.Address())
			if mp.Count() != 1 || got != second {
				t.Fatalf("\t%s\tTest 0:\tShould replace the prior transaction of the sender.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould replace the prior transaction of the sender.", success)
		}
	}
}

func TestValidTransactions(t *testing.T) {
	chain := []database.Block{database.Genesis()}

	t.Log("Given the need to only mine valid transactions.")
	{
		t.Logf("\tTest 0:\tWhen the pool holds tampered transactions.")
		{
			mp := mempool.New(t.Logf)

			good, err := newWallet(t, keys[0]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}

			badAmount, err := newWallet(t, keys[1]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			badAmount.Input.Amount = 999999

			badSig, err := newWallet(t, keys[2]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			badSig.OutputMap["0xrecipient"] = 5
			badSig.OutputMap[badSig.Input.Address] += 5

			mp.Upsert(good)
			mp.Upsert(badAmount)
			mp.Upsert(badSig)

			valid := mp.ValidTransactions()
			if len(valid) != 1 || valid[0] != good {
				t.Logf("\t%s\tTest 0:\tgot: %d", failed, len(valid))
				t.Logf("\t%s\tTest 0:\texp: %d", failed, 1)
				t.Fatalf("\t%s\tTest 0:\tShould only return the valid transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould only return the valid transaction.", success)

			if mp.Count() != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould not remove invalid transactions from the pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not remove invalid transactions from the pool.", success)
		}
	}
}

func TestRemoveIncluded(t *testing.T) {
	chain := []database.Block{database.Genesis()}

	t.Log("Given the need to drop pending transactions a new chain already holds.")
	{
		t.Logf("\tTest 0:\tWhen one pending transaction is in a block.")
		{
			mp := mempool.New(t.Logf)

			included, err := newWallet(t, keys[0]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			pending, err := newWallet(t, keys[1]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}

			mp.Upsert(included)
			mp.Upsert(pending)

			newChain := append(chain, database.Block{Data: []*database.Transaction{included.Clone()}})

			if removed := mp.RemoveIncluded(newChain); removed != 1 {
				t.Logf("\t%s\tTest 0:\tgot: %d", failed, removed)
				t.Logf("\t%s\tTest 0:\texp: %d", failed, 1)
				t.Fatalf("\t%s\tTest 0:\tShould remove the included transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould remove the included transaction.", success)

			if _, exists := mp.Existing(pending.Input.Address); !exists {
				t.Fatalf("\t%s\tTest 0:\tShould keep the pending transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the pending transaction.", success)
		}
	}
}

func TestTakeRelease(t *testing.T) {
	chain := []database.Block{database.Genesis()}
	w := newWallet(t, keys[0])

	t.Log("Given the need to remove only what a mining cycle took.")
	{
		t.Logf("\tTest 0:\tWhen the pool changes while a block is mined.")
		{
			mp := mempool.New(t.Logf)

			taken, err := w.CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			bad, err := newWallet(t, keys[1]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			bad.Input.Amount = 999999

			mp.Upsert(taken)
			mp.Upsert(bad)

			txs, snapshot := mp.Take()
			if len(txs) != 1 || txs[0] != taken || len(snapshot) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould take the valid transaction and the whole pool.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould take the valid transaction and the whole pool.", success)

			update := taken.Clone()
			if err := update.Update(w, "0xother", 5); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to update the transaction: %v", failed, err)
			}
			if _, err := mp.Upsert(update); !errors.Is(err, mempool.ErrBeingMined) {
				t.Logf("\t%s\tTest 0:\tgot: %v", failed, err)
				t.Fatalf("\t%s\tTest 0:\tShould refuse a new version of a transaction being mined.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould refuse a new version of a transaction being mined.", success)

			arrived, err := newWallet(t, keys[2]).CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create transaction: %v", failed, err)
			}
			if _, err := mp.Upsert(arrived); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a new sender while mining: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a new sender while mining.", success)

			if deleted := mp.Release(snapshot, true); deleted != 2 {
				t.Logf("\t%s\tTest 0:\tgot: %d", failed, deleted)
				t.Logf("\t%s\tTest 0:\texp: %d", failed, 2)
				t.Fatalf("\t%s\tTest 0:\tShould delete the taken transactions.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould delete the taken transactions.", success)

			if got, exists := mp.Existing(arrived.Input.Address); !exists || got != arrived || mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the transaction pooled while mining.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the transaction pooled while mining.", success)

			if _, err := mp.Upsert(update); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept updates once the cycle is released: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept updates once the cycle is released.", success)
		}

		t.Logf("\tTest 1:\tWhen the mining cycle fails.")
		{
			mp := mempool.New(t.Logf)

			tx, err := w.CreateTransaction("0xrecipient", 10, chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create transaction: %v", failed, err)
			}
			mp.Upsert(tx)

			_, snapshot := mp.Take()
			if deleted := mp.Release(snapshot, false); deleted != 0 || mp.Count() != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould keep the pool as it was.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep the pool as it was.", success)
		}
	}
}
