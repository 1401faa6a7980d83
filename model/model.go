package model

const (
	ScreenWidth  float32 = 640.0
	ScreenHeight float32 = 480.0

	MaxPlayers = 2

	PlayerMaxHP  int64 = 100
	PlayerMaxMP  int64 = 30
	PlayerMaxStr int64 = 10

	PlayerMoveSpeed     float32 = 1.0
	PlayerTopAccelSpeed float32 = 5.0
	PlayerAccelSpeed    float32 = 0.2
	PlayerStartingAccel float32 = 0.4
	PlayerJumpHeight    float32 = 0.5
	PlayerCellHeight    float32 = 44.0
	PlayerCellWidth     float32 = 34.0

	PotionWidth  float32 = 42.0
	PotionHeight float32 = 42.0

	MapFriction float32 = 5.0

	// Ticks the jump offset takes to rise to PlayerJumpHeight (and the
	// same again to fall back), at the 60Hz simulation rate.
	JumpHalfTicks float32 = 5.0

	AnimationTotalFrames float32 = 4.0

	MaxPlayerNameLen = 8
)

// Position is an axis-aligned rectangle in screen-space units. Two
// positions are compared with Overlaps, not coordinate equality.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Direction holds the four movement-intent flags. On the wire it
// collapses into a single float code, see Code and DirectionFromCode.
type Direction struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

type PotionType string

const (
	PotionHealth PotionType = "Health"
	PotionMana   PotionType = "Mana"
)

type Potion struct {
	Pos  Position   `json:"pos"`
	Type PotionType `json:"potion_type"`
}

type Player struct {
	Name         string    `json:"name"`
	Body         Position  `json:"body"`
	IsHit        bool      `json:"is_hit"`
	Dir          Direction `json:"dir"`
	LastDir      Direction `json:"last_dir"`
	Ate          *Potion   `json:"ate"`
	HP           int64     `json:"hp"`
	MP           int64     `json:"mp"`
	Str          int64     `json:"str"`
	CurrentAccel float32   `json:"current_accel"`
	Jumping      bool      `json:"jumping"`
	JumpOffset   float32   `json:"jump_offset"`
	Ready        bool      `json:"ready"`
	// true while the jump offset is rising, false on the way down.
	JumpDirection        bool    `json:"jump_direction"`
	AnimationFrame       float32 `json:"animation_frame"`
	AnimationTotalFrames float32 `json:"animation_total_frames"`

	jump *jumpArc
}

// NetworkedGame is one session between two players. It is also the JSON
// snapshot body of getworld and joingame replies.
type NetworkedGame struct {
	Players   []*Player `json:"players"`
	SessionID string    `json:"session_id"`
	Started   bool      `json:"started"`
	Completed bool      `json:"completed"`
}

func NewNetworkedGame(sessionID string) *NetworkedGame {
	return &NetworkedGame{
		Players:   []*Player{},
		SessionID: sessionID,
	}
}

// SpawnPosition returns the fixed spawn for the nth joiner: first on the
// left side of the map, second on the right.
func SpawnPosition(joined int) Position {
	if joined == 0 {
		return Position{X: 100.0, Y: 250.0, W: PlayerCellWidth, H: PlayerCellHeight}
	}
	return Position{X: 500.0, Y: 250.0, W: PlayerCellWidth, H: PlayerCellHeight}
}
