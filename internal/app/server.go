package app

import (
	"mvc-redirect/internal/server"
)

// RunServer creates the HTTP server for the configured router
func (app *App) RunServer() *server.Server {
	return server.New(app.Router, app.Config.Port, app.Config.TLSCert, app.Config.TLSKey)
}
