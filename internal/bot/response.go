package bot

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

// ResponseFile attaches generated bytes (a vouch card or gif)
// to the outgoing message
type ResponseFile struct {
	name        string
	contentType string
	data        []byte
}

type Response interface {
	Send(channelid string, discord *discordgo.Session)
}

func (response ResponseString) Send(channelid string, discord *discordgo.Session) {
	if _, err := discord.ChannelMessageSend(channelid, response.string); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send message to channel %s: %s", channelid, err))
	}
}

func (response ResponseEmbed) Send(channelid string, discord *discordgo.Session) {
	if _, err := discord.ChannelMessageSendEmbed(channelid, &response.MessageEmbed); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send embed to channel %s: %s", channelid, err))
	}
}

func (response ResponseFile) Send(channelid string, discord *discordgo.Session) {
	message := &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        response.name,
			ContentType: response.contentType,
			Reader:      bytes.NewReader(response.data),
		}},
	}
	if _, err := discord.ChannelMessageSendComplex(channelid, message); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send file to channel %s: %s", channelid, err))
	}
}
