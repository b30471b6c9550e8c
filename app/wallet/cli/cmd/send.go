package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := loadWallet()
		if err != nil {
			log.Fatal(err)
		}

		tx, err := sendWithDetails(w)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("tx[%s]: transfers[%d]\n", tx.ID, tx.Count)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

// sendWithDetails signs the transfer locally. A pending transaction of the
// wallet on the node is updated with the transfer, otherwise a new one is
// created from the balance on the node's chain.
func sendWithDetails(w *wallet.Wallet) (*database.Transaction, error) {
	var pending database.Transaction
	found, err := send(http.MethodGet, "/v1/tx/pool/"+w.Address(), nil, &pending)
	if err != nil {
		return nil, err
	}

	var tx *database.Transaction

	switch {
	case found:
		tx = pending.Clone()
		if err := tx.Update(w, to, amount); err != nil {
			return nil, err
		}

	default:
		var chain []database.Block
		if _, err := send(http.MethodGet, "/v1/blocks", nil, &chain); err != nil {
			return nil, err
		}

		tx, err = w.CreateTransaction(to, amount, chain)
		if err != nil {
			return nil, err
		}
	}

	if _, err := send(http.MethodPost, "/v1/tx/submit", tx, nil); err != nil {
		return nil, err
	}

	return tx, nil
}
