package main

import (
	"backoffice/internal/app/server"
	"backoffice/internal/platform/logging"
)

func main() {
	if err := server.Run(); err != nil {
		logging.For("main").WithError(err).Fatal("server stopped")
	}
}
