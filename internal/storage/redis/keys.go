package redis

import (
	"fmt"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tttgame"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for a player's credentials
func credentialsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a Session
func sessionKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, playerID)
}

// lobbyKey returns the Redis key for a Lobby
func lobbyKey(name model.LobbyName) string {
	return fmt.Sprintf("%s:lobby:%s", keyPrefix, name)
}

// matchResultsKey returns the Redis key for the match history list
func matchResultsKey() string {
	return fmt.Sprintf("%s:matches", keyPrefix)
}

// statsKey returns the Redis key for a player's statistics hash
func statsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}
