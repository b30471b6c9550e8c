package database_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

func Test_CalculateBalance(t *testing.T) {
	sender := newWallet(t, senderHexKey)
	recipient := newWallet(t, recipientHexKey)
	miner := newWallet(t, minerHexKey).Address()

	chain := []database.Block{database.Genesis()}

	t.Log("Given the need to compute balances from the chain.")
	{
		t.Logf("\tTest 0:\tWhen the address has no outputs.")
		{
			if got := database.CalculateBalance(chain, sender.Address()); got != genesis.StartingBalance {
				t.Logf("\t%s\tTest 0:\tgot: %d", failed, got)
				t.Logf("\t%s\tTest 0:\texp: %d", failed, genesis.StartingBalance)
				t.Fatalf("\t%s\tTest 0:\tShould get the starting balance.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get the starting balance.", success)
		}

		tx1, err := database.NewTransaction(sender, genesis.StartingBalance, recipient.Address(), 50)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the transaction: %v", failed, err)
		}
		tx2, err := database.NewTransaction(recipient, genesis.StartingBalance, miner, 60)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the transaction: %v", failed, err)
		}
		chain = append(chain, database.Block{Data: []*database.Transaction{tx1}})

		t.Logf("\tTest 1:\tWhen the address received outputs but never sent.")
		{
			exp := uint64(genesis.StartingBalance + 50)
			if got := database.CalculateBalance(chain, recipient.Address()); got != exp {
				t.Logf("\t%s\tTest 1:\tgot: %d", failed, got)
				t.Logf("\t%s\tTest 1:\texp: %d", failed, exp)
				t.Fatalf("\t%s\tTest 1:\tShould add the outputs to the starting balance.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould add the outputs to the starting balance.", success)
		}

		t.Logf("\tTest 2:\tWhen the address sent a transaction.")
		{
			exp := tx1.OutputMap[sender.Address()]
			if got := database.CalculateBalance(chain, sender.Address()); got != exp {
				t.Logf("\t%s\tTest 2:\tgot: %d", failed, got)
				t.Logf("\t%s\tTest 2:\texp: %d", failed, exp)
				t.Fatalf("\t%s\tTest 2:\tShould get the change of the most recent transaction.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould get the change of the most recent transaction.", success)
		}

		reward := database.NewRewardTransaction(sender.Address(), 1)
		chain = append(chain, database.Block{Data: []*database.Transaction{tx2, reward}})

		t.Logf("\tTest 3:\tWhen the address received outputs after sending.")
		{
			exp := tx1.OutputMap[sender.Address()] + reward.OutputMap[sender.Address()]
			if got := database.CalculateBalance(chain, sender.Address()); got != exp {
				t.Logf("\t%s\tTest 3:\tgot: %d", failed, got)
				t.Logf("\t%s\tTest 3:\texp: %d", failed, exp)
				t.Fatalf("\t%s\tTest 3:\tShould add the later outputs to the change.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould add the later outputs to the change.", success)
		}

		t.Logf("\tTest 4:\tWhen the address sent after receiving outputs.")
		{
			// Outputs in blocks older than the sent transaction don't count.
			exp := tx2.OutputMap[recipient.Address()]
			if got := database.CalculateBalance(chain, recipient.Address()); got != exp {
				t.Logf("\t%s\tTest 4:\tgot: %d", failed, got)
				t.Logf("\t%s\tTest 4:\texp: %d", failed, exp)
				t.Fatalf("\t%s\tTest 4:\tShould stop at the block holding the sent transaction.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould stop at the block holding the sent transaction.", success)
		}
	}
}
