package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/justmike2000/itemwars/model"
	"github.com/justmike2000/itemwars/protocol"
)

// Listen binds the UDP socket. Addr is only valid afterwards.
func (s *GameServer) Listen() error {
	conn, err := net.ListenPacket("udp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.conn = conn
	return nil
}

// Addr returns the bound socket address.
func (s *GameServer) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Stop shuts the receive loop down by closing the socket.
func (s *GameServer) Stop() {
	close(s.done)
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// Run is the receive loop: block on one datagram, dispatch it, send back
// at most one reply. A malformed datagram is logged and dropped, never
// allowed to kill the loop.
func (s *GameServer) Run() {
	log.Infof("GameServer.Run listening on %s", s.Addr())
	buf := make([]byte, protocol.RequestBufferSize)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-s.done:
				log.Info("GameServer.Run stopped")
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warnf("GameServer.Run read: %v", err)
			continue
		}
		req, err := protocol.DecodeRequest(buf[:n])
		if err != nil {
			log.Warnf("GameServer.Run dropping datagram from %s: %v", addr, err)
			continue
		}
		if reply := s.dispatch(req); reply != nil {
			if _, err := s.conn.WriteTo(reply, addr); err != nil {
				log.Warnf("GameServer.Run reply to %s: %v", addr, err)
			}
		}
	}
}

// dispatch mutates the registry for one request and returns the reply
// payload, or nil when the action sends nothing back.
func (s *GameServer) dispatch(req protocol.Request) []byte {
	switch req.Action {
	case protocol.ActionNewGame:
		return s.newGame()
	case protocol.ActionListGames:
		return s.listGames()
	case protocol.ActionGetWorld:
		return s.getWorld(req)
	case protocol.ActionJoinGame:
		return s.joinGame(req)
	case protocol.ActionReady:
		return s.ready(req)
	case protocol.ActionSendPosition:
		s.sendPosition(req)
		return nil
	case protocol.ActionGetOpponent:
		return s.getOpponent(req)
	case protocol.ActionGetOpponentName:
		return s.getOpponentName(req)
	default:
		return []byte("Invalid Command")
	}
}

func (s *GameServer) findGame(id string) *model.NetworkedGame {
	for _, g := range s.Games {
		if g.SessionID == id {
			return g
		}
	}
	return nil
}

// newGame registers a session under the next sequential id and replies
// with the id as plain text.
func (s *GameServer) newGame() []byte {
	s.gameCount++
	game := model.NewNetworkedGame(strconv.Itoa(s.gameCount))
	s.Games = append(s.Games, game)
	log.Infof("created game %s", game.SessionID)
	return []byte(game.SessionID)
}

// listGames replies with [id, playerCount] pairs for every session still
// waiting for players. Started games are hidden from discovery.
func (s *GameServer) listGames() []byte {
	entries := make([][2]string, 0, len(s.Games))
	for _, g := range s.Games {
		if g.Started {
			continue
		}
		entries = append(entries, [2]string{g.SessionID, strconv.Itoa(len(g.Players))})
	}
	return []byte(protocol.FormatGameList(entries))
}

func (s *GameServer) getWorld(req protocol.Request) []byte {
	game := s.findGame(req.GameID)
	if game == nil {
		log.Warnf("invalid game %s", req.GameID)
		return nil
	}
	snapshot, err := json.Marshal(game)
	if err != nil {
		log.Warnf("marshal game %s: %v", req.GameID, err)
		return nil
	}
	return snapshot
}

// joinGame admits the named player, flipping Started when the second one
// arrives. A full session is rejected silently: no reply, the caller sees
// a timeout.
func (s *GameServer) joinGame(req protocol.Request) []byte {
	game := s.findGame(req.GameID)
	if game == nil {
		log.Warnf("invalid game %s", req.GameID)
		return nil
	}
	if !game.AddPlayer(req.Player) {
		log.Warnf("game %s is full", game.SessionID)
		return nil
	}
	if game.Started {
		log.Infof("starting game %s", game.SessionID)
	}
	snapshot, err := json.Marshal(game)
	if err != nil {
		log.Warnf("marshal game %s: %v", req.GameID, err)
		return nil
	}
	return snapshot
}

// ready marks the caller ready and replies with the aggregate. Calling
// again is a no-op that still recomputes the aggregate.
func (s *GameServer) ready(req protocol.Request) []byte {
	game := s.findGame(req.GameID)
	if game == nil {
		log.Warnf("invalid game %s", req.GameID)
		return nil
	}
	if p := game.FindPlayer(req.Player); p != nil {
		p.Ready = true
	}
	reply, _ := json.Marshal(protocol.ReadyReply{Ready: game.AllReady()})
	return reply
}

// sendPosition overwrites the caller's mutable fields in place. Fire and
// forget: no reply for this action.
func (s *GameServer) sendPosition(req protocol.Request) {
	game := s.findGame(req.GameID)
	if game == nil {
		log.Warnf("invalid game %s", req.GameID)
		return
	}
	p := game.FindPlayer(req.Player)
	if p == nil {
		return
	}
	v, err := protocol.DecodePositionUpdate(req.Meta)
	if err != nil {
		log.Warnf("game %s player %s: %v", req.GameID, req.Player, err)
		return
	}
	p.Body.X = v[0]
	p.Body.Y = v[1]
	p.Dir = model.DirectionFromCode(v[2])
	p.Jumping = v[3] != 0.0
	p.AnimationFrame = v[4]
	p.LastDir = model.DirectionFromCode(v[5])
}

func (s *GameServer) getOpponent(req protocol.Request) []byte {
	game := s.findGame(req.GameID)
	if game == nil {
		log.Warnf("invalid game %s", req.GameID)
		return nil
	}
	opp := game.FindOpponent(req.Player)
	if opp == nil {
		log.Warnf("invalid player %s", req.Player)
		return nil
	}
	jumping := float32(0.0)
	if opp.Jumping {
		jumping = 1.0
	}
	reply, _ := json.Marshal(protocol.OpponentReply{Opponent: []float32{
		opp.Body.X,
		opp.Body.Y,
		opp.Dir.Code(),
		jumping,
		opp.CurrentAccel,
		opp.AnimationFrame,
	}})
	return reply
}

func (s *GameServer) getOpponentName(req protocol.Request) []byte {
	game := s.findGame(req.GameID)
	if game == nil {
		return nil
	}
	opp := game.FindOpponent(req.Player)
	if opp == nil {
		return nil
	}
	return []byte(opp.Name)
}
