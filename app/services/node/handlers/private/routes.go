package private

import (
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/pubsub"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Bus   *pubsub.PubSub
}

// Routes binds all the private routes.
func Routes(app *web.App, cfg Config) {
	prv := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Bus:   cfg.Bus,
	}

	const version = "v1"

	app.Handle(http.MethodPost, "", pubsub.Path, prv.Deliver)
	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodGet, version, "/node/chain", prv.Chain)
	app.Handle(http.MethodGet, version, "/node/tx/list", prv.Mempool)
}
