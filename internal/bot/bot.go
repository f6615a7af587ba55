package bot

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"vouchbot/internal/common"
	"vouchbot/internal/config"
	"vouchbot/internal/ledger"
	"vouchbot/internal/render"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// How often the housekeeping executor gets a chance to run
const housekeepingCycle = time.Minute

// How often the ledger is re-persisted as a crash recovery backstop
const ledgerFlushTimeout = 15 * time.Minute

type Bot struct {
	cfg          config.Config
	ledger       *ledger.Store
	renderer     render.Renderer
	collector    *Collector
	housekeeping common.TimedExecutor
}

func New(cfg config.Config, store *ledger.Store, renderer render.Renderer) *Bot {

	bot := &Bot{
		cfg:       cfg,
		ledger:    store,
		renderer:  renderer,
		collector: NewCollector(),
	}
	bot.housekeeping = common.NewTimedExecutor(ledgerFlushTimeout, bot.flushLedger)
	return bot
}

func (bot *Bot) Run() error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.cfg.Token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	// Event handler
	discord.AddHandler(bot.Receive)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()
	log.Info().Msg("Session open, waiting for events")

	// Periodic housekeeping, until the process is interrupted
	ticker := time.NewTicker(housekeepingCycle)
	defer ticker.Stop()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	for {
		select {
		case <-ticker.C:
			bot.housekeeping.Execute()
		case <-interrupt:
			log.Info().Msg("Interrupted, shutting down")
			bot.flushLedger()
			return nil
		}
	}
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages, and other bots
	if message.Author.ID == discord.State.User.ID || message.Author.Bot {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Msg("Ignoring private message")
		return
	}

	// A running collection gets first pick of the message
	if bot.collector.Offer(message.ChannelID, message.Author.ID, message.ID, message.Content) {
		log.Debug().Msg(fmt.Sprintf("Message %s consumed as a collection answer", message.ID))
		return
	}

	// Auto moderation before command dispatch
	if bot.punishProtectedPing(discord, message) {
		return
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(message.Content, bot.cfg.Prefix)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
		log.Debug().Msg(fmt.Sprintf("Command understood: %s", message.Content))
		var responses []Response
		switch parseResult.command {
		case COMMAND_VOUCH:
			responses = bot.vouch(discord, message, parseResult.arguments.(string))
		case COMMAND_REVIEWS:
			responses = bot.reviews(discord, message)
		case COMMAND_TICKET:
			responses = bot.ticket(discord, message, parseResult.arguments.(string))
		case COMMAND_CLOSE:
			responses = bot.closeTicket(discord, message)
		case COMMAND_LOCK:
			responses = bot.lock(discord, message, true)
		case COMMAND_UNLOCK:
			responses = bot.lock(discord, message, false)
		case COMMAND_KICK:
			responses = bot.kick(discord, message, parseResult.arguments.(string))
		case COMMAND_BAN:
			responses = bot.ban(discord, message, parseResult.arguments.(string))
		case COMMAND_UNBAN:
			responses = bot.unban(discord, message, parseResult.arguments.(string))
		case COMMAND_PING:
			responses = PingMessage(discord.HeartbeatLatency())
		case COMMAND_USERINFO:
			responses = bot.userinfo(discord, message, parseResult.arguments.(string))
		case COMMAND_SERVERINFO:
			responses = bot.serverinfo(discord, message)
		case COMMAND_AVATAR:
			responses = bot.avatar(discord, message, parseResult.arguments.(string))
		case COMMAND_COINFLIP:
			responses = bot.memberCommand(message, CoinflipMessage)
		case COMMAND_ROLL:
			responses = bot.memberCommand(message, RollMessage)
		case COMMAND_8BALL:
			question := parseResult.arguments.(string)
			responses = bot.memberCommand(message, func() []Response { return EightBallMessage(question) })
		case COMMAND_MEME:
			responses = bot.memberCommand(message, MemeMessage)
		case COMMAND_HELP:
			responses = HelpMessage(bot.cfg.Prefix)
		default:
			log.Error().Msg(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
			return
		}
		bot.sendResponses(discord, message.ChannelID, responses)
	default:
		// The command is invalid input, so it contains an error message
		log.Debug().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, parseResult.errorMessage))
		bot.sendResponses(discord, message.ChannelID, InputNotValid(parseResult.errorMessage))
	}
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelid string, responses []Response) {
	for _, response := range responses {
		response.Send(channelid, discord)
	}
}

// vouch runs the interactive collection and appends the resulting
// record to the ledger. The render step comes after persistence and
// never rolls it back
func (bot *Bot) vouch(discord *discordgo.Session, message *discordgo.MessageCreate, subjectid string) []Response {

	if !canVouch(memberRoles(message), bot.cfg.VouchRoleId) {
		log.Debug().Msg(fmt.Sprintf("User %s is not allowed to vouch", message.Author.ID))
		return CannotVouch()
	}

	// Resolve the subject; with an owner configured, the owner is
	// the only valid subject and the default one
	if subjectid == "" {
		subjectid = bot.cfg.OwnerId
	}
	if subjectid == "" {
		return NoSubject()
	}
	if bot.cfg.OwnerId != "" && subjectid != bot.cfg.OwnerId {
		return OwnerVouchOnly()
	}

	send := func(prompt string) (string, error) {
		posted, err := discord.ChannelMessageSend(message.ChannelID, prompt)
		if err != nil {
			return "", err
		}
		return posted.ID, nil
	}

	answers, messageids, err := collectAnswers(bot.collector, message.ChannelID, message.Author.ID, questions, bot.cfg.CollectTimeout, send)
	defer bot.cleanup(discord, message.ChannelID, messageids)
	switch {
	case err == nil:
	case err == ErrCollectorBusy:
		return CollectionBusy()
	case err == ErrTimeout:
		return CollectionTimedOut()
	default:
		log.Error().Msg(fmt.Sprintf("Vouch collection failed: %s", err))
		return ActionFailed("collect the vouch")
	}

	record := ledger.Record{
		By:        message.Author.String(),
		Rating:    answers[0],
		Item:      answers[1],
		Trusted:   answers[2],
		AvatarURL: message.Author.AvatarURL("64"),
	}
	bot.ledger.Append(message.GuildID, subjectid, record)
	if err := bot.ledger.Persist(); err != nil {
		// The record stays in memory; the periodic flush will retry
		log.Error().Msg(fmt.Sprintf("Could not persist ledger: %s", err))
	}

	count := len(bot.ledger.Records(message.GuildID, subjectid))
	data, err := bot.renderer.Card(record)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not render vouch card: %s", err))
		return RenderFailed()
	}
	return append(VouchRecorded(count), VouchCard(data)...)
}

func (bot *Bot) reviews(discord *discordgo.Session, message *discordgo.MessageCreate) []Response {

	if !bot.hasPermission(discord, message, discordgo.PermissionAdministrator) {
		return AdminsOnly()
	}

	records := bot.ledger.AllRecords(message.GuildID)
	if len(records) == 0 {
		return NoReviews()
	}

	data, err := bot.renderer.Cards(records)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not render review reel: %s", err))
		return ReviewList(records)
	}
	return ReviewReel(data)
}

func (bot *Bot) userinfo(discord *discordgo.Session, message *discordgo.MessageCreate, userid string) []Response {

	if userid == "" {
		userid = message.Author.ID
	}
	member, err := discord.GuildMember(message.GuildID, userid)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not fetch member %s: %s", userid, err))
		return ActionFailed("look the user up")
	}
	return UserInfoMessage(member)
}

func (bot *Bot) serverinfo(discord *discordgo.Session, message *discordgo.MessageCreate) []Response {

	guild, err := discord.State.Guild(message.GuildID)
	if err != nil {
		if guild, err = discord.Guild(message.GuildID); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not fetch guild %s: %s", message.GuildID, err))
			return ActionFailed("look the server up")
		}
	}
	return ServerInfoMessage(guild)
}

func (bot *Bot) avatar(discord *discordgo.Session, message *discordgo.MessageCreate, userid string) []Response {

	if userid == "" || userid == message.Author.ID {
		return AvatarMessage(message.Author)
	}
	user, err := discord.User(userid)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not fetch user %s: %s", userid, err))
		return ActionFailed("look the user up")
	}
	return AvatarMessage(user)
}

// memberCommand gates the novelty commands on the member role,
// when one is configured
func (bot *Bot) memberCommand(message *discordgo.MessageCreate, build func() []Response) []Response {

	if !canVouch(memberRoles(message), bot.cfg.MemberRoleId) {
		return MembersOnly()
	}
	return build()
}

// Best effort deletion of the prompt and answer messages, to keep
// the channel clean. A rejected deletion never fails the operation
func (bot *Bot) cleanup(discord *discordgo.Session, channelid string, messageids []string) {
	for _, messageid := range messageids {
		if err := discord.ChannelMessageDelete(channelid, messageid); err != nil {
			log.Debug().Msg(fmt.Sprintf("Could not delete message %s: %s", messageid, err))
		}
	}
}

func (bot *Bot) hasPermission(discord *discordgo.Session, message *discordgo.MessageCreate, permission int64) bool {

	perms, err := discord.UserChannelPermissions(message.Author.ID, message.ChannelID)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not resolve permissions for user %s: %s", message.Author.ID, err))
		return false
	}
	return perms&(permission|discordgo.PermissionAdministrator) != 0
}

func (bot *Bot) flushLedger() {
	if err := bot.ledger.Persist(); err != nil {
		log.Error().Msg(fmt.Sprintf("Ledger flush failed: %s", err))
	}
}

func memberRoles(message *discordgo.MessageCreate) []string {
	if message.Member == nil {
		return nil
	}
	return message.Member.Roles
}

// canVouch is the role gate: an empty configured role disables the
// check, otherwise the invoker has to carry it
func canVouch(roles []string, requiredRole string) bool {
	if requiredRole == "" {
		return true
	}
	for _, role := range roles {
		if role == requiredRole {
			return true
		}
	}
	return false
}
