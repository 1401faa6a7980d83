package server

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/justmike2000/itemwars/protocol"
)

// HandleListGames serves the open-session list over HTTP. The registry is
// owned by the receive goroutine, so instead of reading it directly the
// handler asks the local UDP socket with a real listgames request.
func (s *GameServer) HandleListGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := protocol.Send(s.Addr().String(), protocol.Request{
			Action: protocol.ActionListGames,
		}, true)
		if err != nil {
			log.Warnf("status listgames: %v", err)
			http.Error(w, "game server unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(result))
	}
}

func (s *GameServer) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}
}
