package httpapi

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// Os campos de odd e valor chegam como texto de formulário e são
// normalizados no servidor.
type createGameRequest struct {
	Name     string `json:"name"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	HomeOdd  string `json:"homeOdd"`
	DrawOdd  string `json:"drawOdd"`
	AwayOdd  string `json:"awayOdd"`
}

type placeBetRequest struct {
	Player  string `json:"player"`
	GameID  string `json:"gameId"`
	BetType string `json:"betType"`
	Amount  string `json:"amount"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type selectGameRequest struct {
	GameID string `json:"gameId"`
}

type selectSideRequest struct {
	BetType string `json:"betType"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

type reportResponse struct {
	Kind string `json:"kind"`
	File string `json:"file"`
}
