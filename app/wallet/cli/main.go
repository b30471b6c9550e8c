// Package main implements the wallet command line tool used to create key
// pairs and send transactions to a node.
package main

import "github.com/ardanlabs/powchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
