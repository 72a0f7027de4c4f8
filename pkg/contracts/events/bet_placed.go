package events

type BetPlaced struct {
	BetID       string  `json:"bet_id"`
	Player      string  `json:"player"`
	GameID      string  `json:"game_id"`
	GameName    string  `json:"game_name"`
	BetType     string  `json:"bet_type"` // "home" | "draw" | "away"
	Amount      float64 `json:"amount"`
	OddValue    float64 `json:"odd_value"`
	PossibleWin float64 `json:"possible_win"`
	TsUnixMs    int64   `json:"ts_unix_ms"`
}
