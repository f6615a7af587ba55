package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRejectsMessagesWithoutPrefix(t *testing.T) {

	for _, message := range []string{"hello", "vouch", "!vouch", ""} {
		result := Parse(message, "$")
		assert.Equal(t, PARSEID_NO_BOT_PREFIX, result.parseid, message)
	}
}

func TestParsePrefixIsConfigurable(t *testing.T) {

	result := Parse("!ping", "!")
	assert.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, COMMAND_PING, result.command)

	assert.Equal(t, PARSEID_NO_BOT_PREFIX, Parse("$ping", "!").parseid)
}

func TestParseSimpleCommands(t *testing.T) {

	cases := map[string]int{
		"$reviews":    COMMAND_REVIEWS,
		"$vouches":    COMMAND_REVIEWS,
		"$close":      COMMAND_CLOSE,
		"$lock":       COMMAND_LOCK,
		"$unlock":     COMMAND_UNLOCK,
		"$ping":       COMMAND_PING,
		"$serverinfo": COMMAND_SERVERINFO,
		"$coinflip":   COMMAND_COINFLIP,
		"$roll":       COMMAND_ROLL,
		"$meme":       COMMAND_MEME,
		"$help":       COMMAND_HELP,
	}
	for message, command := range cases {
		result := Parse(message, "$")
		assert.Equal(t, PARSEID_OK, result.parseid, message)
		assert.Equal(t, command, result.command, message)
	}
}

func TestParseMentions(t *testing.T) {

	t.Run("kick requires a mention", func(t *testing.T) {
		result := Parse("$kick <@123456>", "$")
		assert.Equal(t, PARSEID_OK, result.parseid)
		assert.Equal(t, COMMAND_KICK, result.command)
		assert.Equal(t, "123456", result.arguments)

		assert.Equal(t, PARSEID_NO_INPUT, Parse("$kick", "$").parseid)
		assert.Equal(t, PARSEID_NOT_A_MENTION, Parse("$kick bob", "$").parseid)
	})

	t.Run("nickname mentions work too", func(t *testing.T) {
		result := Parse("$ban <@!987>", "$")
		assert.Equal(t, PARSEID_OK, result.parseid)
		assert.Equal(t, "987", result.arguments)
	})

	t.Run("vouch mention is optional", func(t *testing.T) {
		result := Parse("$vouch", "$")
		assert.Equal(t, PARSEID_OK, result.parseid)
		assert.Equal(t, "", result.arguments)

		result = Parse("$vouch <@42>", "$")
		assert.Equal(t, PARSEID_OK, result.parseid)
		assert.Equal(t, "42", result.arguments)
	})
}

func TestParseRawArguments(t *testing.T) {

	result := Parse("$unban alice#0001", "$")
	assert.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "alice#0001", result.arguments)

	result = Parse("$8ball will it work?", "$")
	assert.Equal(t, PARSEID_OK, result.parseid)
	assert.Equal(t, "will it work?", result.arguments)

	assert.Equal(t, PARSEID_NO_INPUT, Parse("$8ball", "$").parseid)
}

func TestParseUnknownInput(t *testing.T) {

	result := Parse("$frobnicate", "$")
	assert.Equal(t, PARSEID_COMMAND_NOT_RECOGNISED, result.parseid)
	assert.NotEmpty(t, result.errorMessage)

	result = Parse("$", "$")
	assert.Equal(t, PARSEID_NO_COMMAND, result.parseid)
}
