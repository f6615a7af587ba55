package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	COMMAND_VOUCH      = iota
	COMMAND_REVIEWS    = iota
	COMMAND_TICKET     = iota
	COMMAND_CLOSE      = iota
	COMMAND_LOCK       = iota
	COMMAND_UNLOCK     = iota
	COMMAND_KICK       = iota
	COMMAND_BAN        = iota
	COMMAND_UNBAN      = iota
	COMMAND_PING       = iota
	COMMAND_USERINFO   = iota
	COMMAND_SERVERINFO = iota
	COMMAND_AVATAR     = iota
	COMMAND_COINFLIP   = iota
	COMMAND_ROLL       = iota
	COMMAND_8BALL      = iota
	COMMAND_MEME       = iota
	COMMAND_HELP       = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_NOT_A_MENTION          = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_A_MENTION:          "Input `%s` is not a user mention",
}

var mentionRegex = regexp.MustCompile(`^<@!?(\d+)>$`)

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

// Parse decides which command a message carries. The prefix is a
// single configured character; a message without it is simply not
// for the bot
func Parse(message string, prefix string) ParseResult {

	noInput := func(command int, commandString string) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(strings.TrimSpace(message[len(prefix):]))
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := words[0]
	words = words[1:]

	// Match the command

	switch commandString {
	case "vouch":
		// $vouch [@subject]
		return parseOptionalMention(COMMAND_VOUCH, words)
	case "reviews", "vouches":
		// $reviews
		return ParseResult{command: COMMAND_REVIEWS, parseid: PARSEID_OK}
	case "ticket":
		// $ticket [@user]
		return parseOptionalMention(COMMAND_TICKET, words)
	case "close":
		// $close
		return ParseResult{command: COMMAND_CLOSE, parseid: PARSEID_OK}
	case "lock":
		// $lock
		return ParseResult{command: COMMAND_LOCK, parseid: PARSEID_OK}
	case "unlock":
		// $unlock
		return ParseResult{command: COMMAND_UNLOCK, parseid: PARSEID_OK}
	case "kick":
		// $kick @user
		command := COMMAND_KICK
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return parseMention(command, words[0])
	case "ban":
		// $ban @user
		command := COMMAND_BAN
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return parseMention(command, words[0])
	case "unban":
		// $unban name#discriminator
		command := COMMAND_UNBAN
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "ping":
		return ParseResult{command: COMMAND_PING, parseid: PARSEID_OK}
	case "userinfo":
		// $userinfo [@user]
		return parseOptionalMention(COMMAND_USERINFO, words)
	case "serverinfo":
		return ParseResult{command: COMMAND_SERVERINFO, parseid: PARSEID_OK}
	case "avatar":
		// $avatar [@user]
		return parseOptionalMention(COMMAND_AVATAR, words)
	case "coinflip":
		return ParseResult{command: COMMAND_COINFLIP, parseid: PARSEID_OK}
	case "roll":
		return ParseResult{command: COMMAND_ROLL, parseid: PARSEID_OK}
	case "8ball":
		// $8ball <question>
		command := COMMAND_8BALL
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "meme":
		return ParseResult{command: COMMAND_MEME, parseid: PARSEID_OK}
	case "help":
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

// Extract the user id from a mention like <@123> or <@!123>
func parseMention(command int, word string) ParseResult {

	match := mentionRegex.FindStringSubmatch(word)
	if match == nil {
		parseid := PARSEID_NOT_A_MENTION
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], word)}
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: match[1]}
}

// Some commands take a mention or nothing at all; nothing is encoded
// as an empty user id and the handler picks the default
func parseOptionalMention(command int, words []string) ParseResult {

	if len(words) == 0 {
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: ""}
	}
	return parseMention(command, words[0])
}
