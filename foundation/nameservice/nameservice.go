// Package nameservice reads a folder of wallet key files and creates a name
// service lookup for the addresses of those wallets.
package nameservice

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powchain/foundation/blockchain/wallet"
)

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	names map[string]string
}

// New constructs a name service with the wallets found in the root folder.
// The name of a wallet is its key file name without the extension.
func New(root string) (*NameService, error) {
	ns := NameService{
		names: make(map[string]string),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		w, err := wallet.Load(fileName)
		if err != nil {
			return err
		}

		ns.names[w.Address()] = strings.TrimSuffix(path.Base(fileName), ".ecdsa")

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address. An unknown address is
// returned as is.
func (ns *NameService) Lookup(address string) string {
	name, exists := ns.names[address]
	if !exists {
		return address
	}
	return name
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.names))
	for address, name := range ns.names {
		cpy[address] = name
	}
	return cpy
}
