package server

// Protocol text sent to clients. Replies the server accepts are listed
// next to each prompt; anything else re-prompts without ending the
// connection.
const (
	// Authentication: "1" register, "2" login
	MsgAuthMenu   = "Choose an action: 1 - Register, 2 - Login:"
	MsgBadAuthKey = "Enter a number from 1 to 2."

	// Account and lobby data: "<name> <password>", exactly one space
	MsgAccountPrompt = "Enter account details (username password):"
	MsgLobbyPrompt   = "Enter lobby details (name password):"
	MsgOneSpace      = "Use exactly one space between the two fields."
	MsgEmptyFields   = "Fill in both fields."

	MsgRegisterFailed = "Registration failed. Try another username."
	MsgRegisterError  = "Registration failed, try again."
	MsgLoginFailed    = "Login failed. Invalid credentials."

	// Lobby menu: "1" create, "2" join, "3" exit
	MsgLobbyMenu       = "Create or join a lobby? (1 - Create, 2 - Join, 3 - Exit):"
	MsgBadLobbyKey     = "Enter a number from 1 to 3."
	MsgCreateFailed    = "Could not create lobby. That name is taken."
	MsgJoinFailed      = "Could not join lobby. Check the name and password."
	MsgLobbyFull       = "That lobby is already full."
	MsgAwaitingPartner = "Welcome to Tic-Tac-Toe! Waiting for a second player..."
	MsgWelcome         = "Welcome to Tic-Tac-Toe!"

	// Match flow: moves are "1".."9"
	MsgPlayingX     = "The game has started! You play 'X'."
	MsgPlayingO     = "The game has started! You play 'O'."
	MsgCurrentBoard = "Current board:"
	MsgFinalBoard   = "Final board:"
	MsgMovePrompt   = "Your move. Enter a cell number (1-9):"
	MsgInvalidInput = "Invalid input, try again."
	MsgIllegalMove  = "Illegal move, try again."
	MsgDraw         = "It's a draw!"
	MsgOpponentGone = "Your opponent disconnected. The match is over."

	// Rematch vote tokens, kept wire-compatible with the original client
	MsgRematchPrompt  = "Play another round? (да/нет):"
	MsgInvalidRematch = "Answer да or нет."
	RematchYes        = "да"
	RematchNo         = "нет"
)
