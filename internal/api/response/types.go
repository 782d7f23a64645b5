package response

import (
	"time"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// PlayerResponse is the public view of a player
type PlayerResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerFromModel converts a model player to a response
func PlayerFromModel(p *model.Player) PlayerResponse {
	return PlayerResponse{
		ID:        string(p.ID),
		Username:  p.Username,
		CreatedAt: p.CreatedAt,
	}
}

// StatsResponse is the public view of a player's match record
type StatsResponse struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
}

// StatsFromModel converts model stats to a response
func StatsFromModel(username string, s *model.PlayerStats) StatsResponse {
	return StatsResponse{
		Username:    username,
		GamesPlayed: s.GamesPlayed,
		Wins:        s.Wins,
		Losses:      s.Losses,
		Draws:       s.Draws,
	}
}

// LobbyResponse is the public view of a lobby
type LobbyResponse struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// LobbyFromModel converts a model lobby to a response. The password hash
// and owner identity never leave the server.
func LobbyFromModel(l *model.Lobby) LobbyResponse {
	return LobbyResponse{
		Name:      string(l.Name),
		State:     string(l.State),
		CreatedAt: l.CreatedAt,
	}
}
