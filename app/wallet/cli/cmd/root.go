// Package cmd contains wallet app
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	walletName string
	walletPath string
	url        string
)

const (
	keyExtension = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&walletName, "wallet", "w", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&walletPath, "wallet-path", "p", "zblock/wallets/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple wallet",
}

// Execute runs the command selected on the command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(walletName, keyExtension) {
		walletName += keyExtension
	}

	return filepath.Join(walletPath, walletName)
}

func loadWallet() (*wallet.Wallet, error) {
	return wallet.Load(getPrivateKeyPath())
}

// =============================================================================

var client = http.Client{
	Timeout: 30 * time.Second,
}

// send performs a call against the public API of the node. A 404 is reported
// with a false found value instead of an error.
func send(method string, path string, dataSend any, dataRecv any) (found bool, err error) {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return false, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url+path, body)
	if err != nil {
		return false, err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, err
		}
		return false, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return false, err
		}
	}

	return true, nil
}
