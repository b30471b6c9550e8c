// Package pubsub implements the broadcast bus nodes use to share their chain
// and pending transactions. A message is published to every known peer and
// a node never processes a message it published itself.
package pubsub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// Path is where every node receives messages on its private API.
const Path = "/v1/node/pubsub"

// PubSub publishes messages to the known peers and delivers the messages
// received from them to the state.
type PubSub struct {
	state     *state.State
	client    http.Client
	evHandler state.EventHandler
}

// New constructs a bus bound to the specified state.
func New(st *state.State, evHandler state.EventHandler) *PubSub {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &PubSub{
		state:     st,
		client:    http.Client{Timeout: 30 * time.Second},
		evHandler: ev,
	}
}

// BroadcastChain publishes the chain on the BLOCKCHAIN channel.
func (ps *PubSub) BroadcastChain(chain []database.Block) error {
	return ps.publish(ChannelBlockchain, ChainUpdate{Chain: chain})
}

// BroadcastTransaction publishes the transaction on the TRANSACTION channel.
func (ps *PubSub) BroadcastTransaction(tx *database.Transaction) error {
	return ps.publish(ChannelTransaction, TransactionSubmit{Transaction: tx})
}

// Deliver processes a message received from a peer. Messages published by
// this node are dropped. A chain that is not longer than the local chain is
// ignored.
func (ps *PubSub) Deliver(msg Message) error {
	if msg.Origin == ps.state.RetrieveHost() {
		ps.evHandler("pubsub: Deliver: channel[%s]: dropping message from self", msg.Channel)
		return nil
	}

	if err := validate.Check(msg); err != nil {
		return err
	}

	ps.evHandler("pubsub: Deliver: channel[%s]: origin[%s]", msg.Channel, msg.Origin)

	switch msg.Channel {
	case ChannelBlockchain:
		var cu ChainUpdate
		if err := msg.ParsePayload(&cu); err != nil {
			return err
		}

		if err := ps.state.ProcessPeerChain(cu.Chain); err != nil {
			if errors.Is(err, database.ErrChainNotLonger) {
				ps.evHandler("pubsub: Deliver: channel[%s]: ignored: %s", msg.Channel, err)
				return nil
			}
			return err
		}

	case ChannelTransaction:
		var ts TransactionSubmit
		if err := msg.ParsePayload(&ts); err != nil {
			return err
		}

		if err := ps.state.UpsertNodeTransaction(ts.Transaction); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================

// publish sends the payload to every known peer. A failure to reach a peer
// doesn't stop the others from being reached.
func (ps *PubSub) publish(channel Channel, payload any) error {
	msg, err := NewMessage(channel, ps.state.RetrieveHost(), payload)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	var errs []error
	for _, pr := range ps.state.RetrieveKnownPeers() {
		url := fmt.Sprintf("http://%s%s", pr.Host, Path)

		if err := ps.send(url, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pr.Host, err))
			continue
		}

		ps.evHandler("pubsub: publish: channel[%s]: sent to peer[%s]", channel, pr)
	}

	return errors.Join(errs...)
}

// send posts the encoded message to the url.
func (ps *PubSub) send(url string, data []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ps.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	return nil
}
