package client

import (
	"encoding/json"
	"fmt"

	"github.com/justmike2000/itemwars/model"
	"github.com/justmike2000/itemwars/protocol"
)

func getWorld(cfg Config) (*model.NetworkedGame, error) {
	result, err := protocol.Send(cfg.Server, protocol.Request{
		GameID: cfg.GameID,
		Player: cfg.Player,
		Action: protocol.ActionGetWorld,
	}, true)
	if err != nil {
		return nil, err
	}
	var game model.NetworkedGame
	if err := json.Unmarshal([]byte(result), &game); err != nil {
		return nil, fmt.Errorf("world snapshot: %w (%s)", err, result)
	}
	return &game, nil
}

func joinGame(cfg Config) (*model.NetworkedGame, error) {
	result, err := protocol.Send(cfg.Server, protocol.Request{
		GameID: cfg.GameID,
		Player: cfg.Player,
		Action: protocol.ActionJoinGame,
	}, true)
	if err != nil {
		return nil, err
	}
	var game model.NetworkedGame
	if err := json.Unmarshal([]byte(result), &game); err != nil {
		return nil, fmt.Errorf("join snapshot: %w (%s)", err, result)
	}
	return &game, nil
}

// sendReady marks this player ready and returns the both-ready aggregate.
func sendReady(cfg Config) (bool, error) {
	result, err := protocol.Send(cfg.Server, protocol.Request{
		GameID: cfg.GameID,
		Player: cfg.Player,
		Action: protocol.ActionReady,
	}, true)
	if err != nil {
		return false, err
	}
	var reply protocol.ReadyReply
	if err := json.Unmarshal([]byte(result), &reply); err != nil {
		return false, fmt.Errorf("ready reply: %w (%s)", err, result)
	}
	return reply.Ready, nil
}

// getOpponent polls the opponent snapshot vector. A timeout is a dropped
// update, reported as an error for the caller to skip.
func getOpponent(cfg Config) ([]float32, error) {
	result, err := protocol.Send(cfg.Server, protocol.Request{
		GameID: cfg.GameID,
		Player: cfg.Player,
		Action: protocol.ActionGetOpponent,
	}, true)
	if err != nil {
		return nil, err
	}
	var reply protocol.OpponentReply
	if err := json.Unmarshal([]byte(result), &reply); err != nil {
		return nil, fmt.Errorf("opponent reply: %w (%s)", err, result)
	}
	return reply.Opponent, nil
}

func getOpponentName(cfg Config) (string, error) {
	return protocol.Send(cfg.Server, protocol.Request{
		GameID: cfg.GameID,
		Player: cfg.Player,
		Action: protocol.ActionGetOpponentName,
	}, true)
}

// positionVector flattens the transmitted player fields into the
// sendposition metadata layout.
func positionVector(p model.Player) [protocol.PositionUpdateLen]float32 {
	jumping := float32(0.0)
	if p.Jumping {
		jumping = 1.0
	}
	return [protocol.PositionUpdateLen]float32{
		p.Body.X,
		p.Body.Y,
		p.Dir.Code(),
		jumping,
		p.AnimationFrame,
		p.LastDir.Code(),
	}
}

// sendPosition transmits the local player state without waiting for a
// reply.
func sendPosition(cfg Config, p model.Player) error {
	meta := protocol.EncodePositionUpdate(positionVector(p))
	_, err := protocol.Send(cfg.Server, protocol.Request{
		GameID: cfg.GameID,
		Player: p.Name,
		Action: protocol.ActionSendPosition,
		Meta:   meta,
	}, false)
	return err
}

// ListGames asks a server for its open sessions and returns the textual
// listing verbatim.
func ListGames(server string) (string, error) {
	return protocol.Send(server, protocol.Request{
		Action: protocol.ActionListGames,
	}, true)
}
