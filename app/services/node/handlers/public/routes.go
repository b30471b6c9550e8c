package public

import (
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/blocks", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/length", pbl.ChainLength)
	app.Handle(http.MethodGet, version, "/blocks/address/:address", pbl.BlocksByAddress)
	app.Handle(http.MethodGet, version, "/tx/pool", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/tx/pool/:address", pbl.PendingTransaction)
	app.Handle(http.MethodPost, version, "/tx/transact", pbl.Transact)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitWalletTransaction)
	app.Handle(http.MethodGet, version, "/mine/transactions", pbl.MineTransactions)
	app.Handle(http.MethodGet, version, "/wallet", pbl.Wallet)
	app.Handle(http.MethodGet, version, "/balance/:address", pbl.Balance)
}
