// Package notebook is the client for the n0t3b00k service.
//
// A Client owns exactly one TCP connection and exposes one method per
// service command. Every method maps failures onto outcome kinds: transport
// problems become Offline, unexpected replies become Mumble, and misuse of
// the client itself becomes Internal.
package notebook

const (
	ServiceName = "n0t3b00k"
	DefaultPort = 2323

	WelcomeMessage  = "Welcome to the 1337 n0t3b00k!"
	RegisterSuccess = "User successfully registered"
	LoginSuccess    = "Successfully logged in!"
	NoteSavedMarker = "Note saved! ID is "
)

// HelpText is the reply to "help" with the trailing prompt stripped.
const HelpText = "\nThis is a notebook service. Commands:\n" +
	"reg USER PW - Register new account\n" +
	"log USER PW - Login to account\n" +
	"set TEXT..... - Set a note\n" +
	"user  - List all users\n" +
	"list - List all notes\n" +
	"exit - Exit!\n" +
	"dump - Dump the database\n" +
	"get ID"

// HelpLines is the number of lines in HelpText.
const HelpLines = 10

const (
	cmdRegister = "reg"
	cmdLogin    = "log"
	cmdSet      = "set"
	cmdGet      = "get"
	cmdHelp     = "help"
	cmdUsers    = "user"
	cmdList     = "list"
	cmdDump     = "dump"
	cmdExit     = "exit"
)

// State is the lifecycle position of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
