package main

import (
	"net/http"

	"github.com/matryer/way"

	"github.com/justmike2000/itemwars/server"
)

func routes(s *server.GameServer) http.Handler {
	router := way.NewRouter()
	router.HandleFunc("GET", "/games", s.HandleListGames())
	router.HandleFunc("GET", "/healthz", s.HandleHealth())
	return router
}
