// Package protocol holds the textual UDP wire format: colon-separated
// requests tagged with a small integer action code, and raw UTF-8
// replies that are either plain strings or JSON documents.
package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Action selects the requested operation. Zero is the unknown bucket.
type Action int

const (
	ActionUnknown Action = iota
	ActionSendPosition
	ActionNewGame
	ActionListGames
	ActionReady
	ActionGetWorld
	ActionGetOpponent
	ActionJoinGame
	ActionGetOpponentName
)

var actionNames = map[Action]string{
	ActionSendPosition:    "sendposition",
	ActionNewGame:         "newgame",
	ActionListGames:       "listgames",
	ActionReady:           "ready",
	ActionGetWorld:        "getworld",
	ActionGetOpponent:     "getopponent",
	ActionJoinGame:        "joingame",
	ActionGetOpponentName: "getopponentname",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionFromString resolves a console command name to its action code.
func ActionFromString(name string) Action {
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}
	return ActionUnknown
}

// ActionFromCode maps a wire code onto an action, collapsing anything
// outside 1-8 into ActionUnknown.
func ActionFromCode(code int) Action {
	if code >= int(ActionSendPosition) && code <= int(ActionGetOpponentName) {
		return Action(code)
	}
	return ActionUnknown
}

// Request is one decoded datagram payload.
type Request struct {
	GameID string
	Player string
	Action Action
	Meta   string
}

// Encode renders the request as a single datagram payload.
func (r Request) Encode() string {
	return fmt.Sprintf("%s:%s:%d:%s", r.GameID, r.Player, int(r.Action), r.Meta)
}

// DecodeRequest splits a payload into its four fields. The split is
// bounded, so metadata may itself contain the delimiter.
func DecodeRequest(payload []byte) (Request, error) {
	fields := strings.SplitN(string(payload), ":", 4)
	if len(fields) != 4 {
		return Request{}, fmt.Errorf("malformed request: want 4 fields, got %d", len(fields))
	}
	code, err := strconv.Atoi(fields[2])
	if err != nil {
		return Request{}, fmt.Errorf("malformed action code %q: %w", fields[2], err)
	}
	return Request{
		GameID: fields[0],
		Player: fields[1],
		Action: ActionFromCode(code),
		Meta:   fields[3],
	}, nil
}

// ReadyReply is the JSON body of a ready reply; Ready aggregates both
// players' flags.
type ReadyReply struct {
	Ready bool `json:"ready"`
}

// OpponentReply is the JSON body of a getopponent reply. The vector is
// [x, y, directionCode, jumpingFlag, currentAccel, animationFrame].
type OpponentReply struct {
	Opponent []float32 `json:"opponent"`
}

// PositionUpdateLen is the metadata vector length of sendposition:
// [x, y, directionCode, jumpingFlag, animationFrame, lastDirectionCode].
const PositionUpdateLen = 6

// EncodePositionUpdate renders a sendposition metadata vector.
func EncodePositionUpdate(v [PositionUpdateLen]float32) string {
	b, _ := json.Marshal(v[:])
	return string(b)
}

// DecodePositionUpdate parses sendposition metadata.
func DecodePositionUpdate(meta string) ([PositionUpdateLen]float32, error) {
	var out [PositionUpdateLen]float32
	var v []float32
	if err := json.Unmarshal([]byte(meta), &v); err != nil {
		return out, fmt.Errorf("position metadata: %w", err)
	}
	if len(v) != PositionUpdateLen {
		return out, fmt.Errorf("position metadata: want %d elements, got %d", PositionUpdateLen, len(v))
	}
	copy(out[:], v)
	return out, nil
}

// FormatGameList renders listgames entries, each a [sessionId, playerCount]
// pair, in the protocol's fixed textual form: [["1", "0"], ["2", "1"]].
func FormatGameList(entries [][2]string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%q, %q]", e[0], e[1])
	}
	b.WriteByte(']')
	return b.String()
}
