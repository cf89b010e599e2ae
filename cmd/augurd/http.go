package main

import (
	"net/http"

	"github.com/bitcoinaugur/augurd/pkg/httpapi"
)

func runHTTPServer(addr string, server *httpapi.Server) error {
	return http.ListenAndServe(addr, server.Handler())
}
