package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const ticketPrefix = "ticket-"

// punishProtectedPing applies the anti ping rule: mentioning the
// protected role without being an administrator earns a timeout.
// Reports if the message was handled here
func (bot *Bot) punishProtectedPing(discord *discordgo.Session, message *discordgo.MessageCreate) bool {

	if bot.cfg.ProtectedRoleId == "" {
		return false
	}
	mentioned := false
	for _, roleid := range message.MentionRoles {
		if roleid == bot.cfg.ProtectedRoleId {
			mentioned = true
			break
		}
	}
	if !mentioned || bot.hasPermission(discord, message, discordgo.PermissionAdministrator) {
		return false
	}

	until := time.Now().Add(bot.cfg.TimeoutDuration)
	if err := discord.GuildMemberTimeout(message.GuildID, message.Author.ID, &until); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not timeout user %s: %s", message.Author.ID, err))
		bot.sendResponses(discord, message.ChannelID, ActionFailed("timeout the member"))
		return true
	}
	log.Info().Msg(fmt.Sprintf("User %s timed out until %s for pinging the protected role", message.Author.ID, until))
	bot.sendResponses(discord, message.ChannelID, ProtectedPing(message.Author.ID, bot.cfg.TimeoutDuration))
	return true
}

// ticket creates a private channel visible to the invoker, the
// configured owner and the bot itself
func (bot *Bot) ticket(discord *discordgo.Session, message *discordgo.MessageCreate, userid string) []Response {

	if !canVouch(memberRoles(message), bot.cfg.MemberRoleId) {
		return MembersOnly()
	}

	// Admins can open a ticket on behalf of somebody else
	if userid == "" || !bot.hasPermission(discord, message, discordgo.PermissionAdministrator) {
		userid = message.Author.ID
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			// The everyone role shares its id with the guild
			ID:   message.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    userid,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel,
		},
		{
			ID:    discord.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel,
		},
	}
	if bot.cfg.OwnerId != "" && bot.cfg.OwnerId != userid {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    bot.cfg.OwnerId,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel,
		})
	}

	// A short unique suffix keeps two tickets by the same user apart
	name := fmt.Sprintf("%s%s-%s", ticketPrefix, strings.ToLower(message.Author.Username), uuid.NewString()[:8])
	channel, err := discord.GuildChannelCreateComplex(message.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not create ticket channel: %s", err))
		return ActionFailed("create the ticket")
	}
	log.Info().Msg(fmt.Sprintf("Created ticket channel %s for user %s", channel.ID, userid))
	return TicketCreated(channel.ID)
}

// closeTicket deletes the current channel, owner only, and only for
// channels that are actually tickets
func (bot *Bot) closeTicket(discord *discordgo.Session, message *discordgo.MessageCreate) []Response {

	if bot.cfg.OwnerId == "" || message.Author.ID != bot.cfg.OwnerId {
		return OwnerOnly()
	}

	channel, err := discord.Channel(message.ChannelID)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not fetch channel %s: %s", message.ChannelID, err))
		return ActionFailed("close the ticket")
	}
	if !strings.HasPrefix(channel.Name, ticketPrefix) {
		return NotATicketChannel()
	}

	if _, err := discord.ChannelDelete(message.ChannelID); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not delete channel %s: %s", message.ChannelID, err))
		return ActionFailed("close the ticket")
	}
	// The channel is gone, there is nowhere to respond
	return nil
}

// lock denies (or restores) sending messages for the everyone role
// in the current channel
func (bot *Bot) lock(discord *discordgo.Session, message *discordgo.MessageCreate, locked bool) []Response {

	if !bot.hasPermission(discord, message, discordgo.PermissionManageChannels) {
		return MissingPermission("Manage Channels")
	}

	var allow, deny int64
	if locked {
		deny = discordgo.PermissionSendMessages
	} else {
		allow = discordgo.PermissionSendMessages
	}
	if err := discord.ChannelPermissionSet(message.ChannelID, message.GuildID, discordgo.PermissionOverwriteTypeRole, allow, deny); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not change channel %s lock state: %s", message.ChannelID, err))
		return ActionFailed("change the channel permissions")
	}
	if locked {
		return ChannelLocked()
	}
	return ChannelUnlocked()
}

func (bot *Bot) kick(discord *discordgo.Session, message *discordgo.MessageCreate, userid string) []Response {

	if !bot.hasPermission(discord, message, discordgo.PermissionKickMembers) {
		return MissingPermission("Kick Members")
	}
	reason := fmt.Sprintf("Kicked by %s", message.Author.String())
	if err := discord.GuildMemberDeleteWithReason(message.GuildID, userid, reason); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not kick user %s: %s", userid, err))
		return ActionFailed("kick the member")
	}
	return MemberKicked(userid)
}

func (bot *Bot) ban(discord *discordgo.Session, message *discordgo.MessageCreate, userid string) []Response {

	if !bot.hasPermission(discord, message, discordgo.PermissionBanMembers) {
		return MissingPermission("Ban Members")
	}
	if err := discord.GuildBanCreate(message.GuildID, userid, 0); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not ban user %s: %s", userid, err))
		return ActionFailed("ban the member")
	}
	return MemberBanned(userid)
}

// unban lifts a ban identified by name#discriminator, as banned
// users can no longer be mentioned
func (bot *Bot) unban(discord *discordgo.Session, message *discordgo.MessageCreate, name string) []Response {

	if !bot.hasPermission(discord, message, discordgo.PermissionBanMembers) {
		return MissingPermission("Ban Members")
	}

	bans, err := discord.GuildBans(message.GuildID, 0, "", "")
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not fetch the ban list: %s", err))
		return ActionFailed("fetch the ban list")
	}
	for _, ban := range bans {
		if ban.User.String() != name && ban.User.Username != name {
			continue
		}
		if err := discord.GuildBanDelete(message.GuildID, ban.User.ID); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not unban user %s: %s", ban.User.ID, err))
			return ActionFailed("lift the ban")
		}
		return MemberUnbanned(name)
	}
	return BanNotFound(name)
}
