package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveMinerAddress returns the address of the node wallet, which is paid
// the rewards for the blocks this node mines.
func (s *State) RetrieveMinerAddress() string {
	return s.minerWallet.Address()
}

// RetrieveChain returns the current chain. The blocks must not be modified.
func (s *State) RetrieveChain() []database.Block {
	return *s.chain.Load()
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	chain := *s.chain.Load()
	return chain[len(chain)-1]
}

// RetrieveMempool returns a copy of the mempool keyed by sender address.
func (s *State) RetrieveMempool() map[string]*database.Transaction {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}
