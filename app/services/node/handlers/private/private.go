// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/pubsub"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	Bus   *pubsub.PubSub
}

// Deliver hands a message published by a peer to the bus.
func (h Handlers) Deliver(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var msg pubsub.Message
	if err := web.Decode(r, &msg); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("deliver message", "traceid", v.TraceID, "channel", msg.Channel, "origin", msg.Origin)
	if err := h.Bus.Deliver(msg); err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := peer.PeerStatus{
		LatestBlockHash: h.State.RetrieveLatestBlock().Hash,
		ChainLength:     h.State.QueryChainLength(),
		MempoolLength:   h.State.QueryMempoolLength(),
		KnownPeers:      h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Chain returns the full chain for a peer to sync with.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// Mempool returns the pending transactions keyed by sender address.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}
