// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/validate"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the parameters every node on the chain agrees on.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Blocks returns the full chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// ChainLength returns the number of blocks in the chain.
func (h Handlers) ChainLength(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cl := chainLength{
		Length: h.State.QueryChainLength(),
	}
	return web.Respond(ctx, w, cl, http.StatusOK)
}

// BlocksByAddress returns the blocks holding a transaction sent by or paying
// the specified address.
func (h Handlers) BlocksByAddress(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.QueryBlocksByAddress(web.Param(r, "address"))
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mempool returns the pending transactions keyed by sender address.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// PendingTransaction returns the pending transaction of the specified sender.
func (h Handlers) PendingTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	tx, exists := h.State.QueryPendingTransaction(address)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("no pending transaction for %s", address), http.StatusNotFound)
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// Transact sends an amount from the node wallet. The pending transaction of
// the node wallet is updated when there is one.
func (h Handlers) Transact(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req transact
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	tx, err := h.State.Transact(req.Recipient, req.Amount)
	if err != nil {
		return errs.FromLedger(err)
	}

	h.Log.Infow("transact", "traceid", v.TraceID, "tx", tx, "to", h.NS.Lookup(req.Recipient), "amount", req.Amount)

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// SubmitWalletTransaction adds a transaction signed by an external wallet to
// the mempool.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Transaction
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", &tx, "from", h.NS.Lookup(tx.Input.Address), "count", tx.Count)
	if err := h.State.UpsertWalletTransaction(&tx); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// MineTransactions signals the worker to mine the mempool. The block is
// mined in the background and shared when complete.
func (h Handlers) MineTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.QueryMempoolLength() == 0 {
		return errs.NewTrusted(errors.New("no transactions in mempool"), http.StatusBadRequest)
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Wallet returns the address and balance of the node wallet.
func (h Handlers) Wallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.respondBalance(ctx, w, h.State.RetrieveMinerAddress())
}

// Balance returns the balance of the specified address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.respondBalance(ctx, w, web.Param(r, "address"))
}

func (h Handlers) respondBalance(ctx context.Context, w http.ResponseWriter, address string) error {
	bal := balance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.State.QueryBalance(address),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}
