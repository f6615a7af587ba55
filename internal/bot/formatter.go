package bot

import (
	"fmt"
	"math/rand"
	"time"

	"vouchbot/internal/ledger"

	"github.com/bwmarrin/discordgo"
)

// Use "cadet blue" for the bot, same as the card header
const color int = 0x5F9EA0

var questions = []string{
	"Rate your experience (1-5):",
	"What did you buy?",
	"Is this user trusted? (yes/no)",
}

var eightBallAnswers = []string{
	"It is certain",
	"Without a doubt",
	"Yes, definitely",
	"Most likely",
	"Outlook good",
	"Ask again later",
	"Better not tell you now",
	"Cannot predict now",
	"Don't count on it",
	"My reply is no",
	"Outlook not so good",
	"Very doubtful",
}

var memes = []string{
	"https://i.redd.it/abcd1.jpg",
	"https://i.redd.it/abcd2.jpg",
	"https://i.redd.it/abcd3.jpg",
}

func InputNotValid(errorMessage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func CannotVouch() []Response {
	return []Response{ResponseString{"You cannot vouch"}}
}

func OwnerVouchOnly() []Response {
	return []Response{ResponseString{"You can only vouch for the owner"}}
}

func NoSubject() []Response {
	return []Response{ResponseString{"There is nobody to vouch for: mention a user or configure an owner"}}
}

func CollectionBusy() []Response {
	return []Response{ResponseString{"Finish your current vouch first"}}
}

func CollectionTimedOut() []Response {
	return []Response{ResponseString{"Vouch cancelled: you took too long to answer"}}
}

func VouchRecorded(count int) []Response {
	return []Response{ResponseString{fmt.Sprintf("Vouch recorded, %d on file for this user", count)}}
}

func VouchCard(data []byte) []Response {
	return []Response{ResponseFile{"vouch.png", "image/png", data}}
}

func ReviewReel(data []byte) []Response {
	return []Response{ResponseFile{"reviews.gif", "image/gif", data}}
}

func RenderFailed() []Response {
	return []Response{ResponseString{"The vouch was saved, but I could not produce the image"}}
}

func AdminsOnly() []Response {
	return []Response{ResponseString{"Admins only"}}
}

func OwnerOnly() []Response {
	return []Response{ResponseString{"Owner only"}}
}

func MembersOnly() []Response {
	return []Response{ResponseString{"Members only"}}
}

func MissingPermission(what string) []Response {
	return []Response{ResponseString{fmt.Sprintf("You need the `%s` permission to do that", what)}}
}

func NoReviews() []Response {
	return []Response{ResponseString{"No reviews yet"}}
}

// Reviews as plain text, the fallback when the gif cannot be produced
func ReviewList(records []ledger.Record) []Response {

	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("Reviews (%d)", len(records)), Color: color}
	for _, record := range records {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   record.By,
			Value:  fmt.Sprintf("Rating: %s | Item: %s | Trusted: %s", record.Rating, record.Item, record.Trusted),
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{embed}}
}

func TicketCreated(channelid string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Ticket created: <#%s>", channelid)}}
}

func NotATicketChannel() []Response {
	return []Response{ResponseString{"This is not a ticket channel"}}
}

func ChannelLocked() []Response {
	return []Response{ResponseString{"Channel locked"}}
}

func ChannelUnlocked() []Response {
	return []Response{ResponseString{"Channel unlocked"}}
}

func MemberKicked(userid string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Kicked <@%s>", userid)}}
}

func MemberBanned(userid string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Banned <@%s>", userid)}}
}

func MemberUnbanned(name string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Unbanned `%s`", name)}}
}

func BanNotFound(name string) []Response {
	return []Response{ResponseString{fmt.Sprintf("No ban found for `%s`", name)}}
}

func ActionFailed(action string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Could not %s: the platform rejected the action", action)}}
}

func ProtectedPing(userid string, duration time.Duration) []Response {
	days := int(duration.Hours() / 24)
	return []Response{ResponseString{fmt.Sprintf("<@%s> pinged a protected role and got a %d day timeout", userid, days)}}
}

func PingMessage(latency time.Duration) []Response {
	return []Response{ResponseString{fmt.Sprintf("Pong! %dms", latency.Milliseconds())}}
}

func CoinflipMessage() []Response {
	sides := []string{"Heads", "Tails"}
	return []Response{ResponseString{sides[rand.Intn(len(sides))]}}
}

func RollMessage() []Response {
	return []Response{ResponseString{fmt.Sprintf("You rolled a %d", rand.Intn(6)+1)}}
}

func EightBallMessage(question string) []Response {
	embed := discordgo.MessageEmbed{Title: "Magic 8-ball", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: question, Value: eightBallAnswers[rand.Intn(len(eightBallAnswers))]})
	return []Response{ResponseEmbed{embed}}
}

func MemeMessage() []Response {
	return []Response{ResponseString{memes[rand.Intn(len(memes))]}}
}

func AvatarMessage(user *discordgo.User) []Response {
	embed := discordgo.MessageEmbed{
		Title: fmt.Sprintf("Avatar of %s", user.Username),
		Color: color,
		Image: &discordgo.MessageEmbedImage{URL: user.AvatarURL("256")},
	}
	return []Response{ResponseEmbed{embed}}
}

func UserInfoMessage(member *discordgo.Member) []Response {

	embed := discordgo.MessageEmbed{
		Title:     fmt.Sprintf("User info for %s", member.User.Username),
		Color:     color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: member.User.AvatarURL("64")},
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Id", Value: member.User.ID, Inline: true,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Joined", Value: member.JoinedAt.Format("2006-01-02"), Inline: true,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Roles", Value: fmt.Sprintf("%d", len(member.Roles)), Inline: true,
	})
	return []Response{ResponseEmbed{embed}}
}

func ServerInfoMessage(guild *discordgo.Guild) []Response {

	embed := discordgo.MessageEmbed{Title: guild.Name, Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Id", Value: guild.ID, Inline: true,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Channels", Value: fmt.Sprintf("%d", len(guild.Channels)), Inline: true,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Owner", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: true,
	})
	return []Response{ResponseEmbed{embed}}
}

func HelpMessage(prefix string) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	add := func(name, value string) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s%s`", prefix, name),
			Value:  value,
			Inline: false,
		})
	}
	add("vouch [@user]", "Leave a vouch; I will ask you three questions in this channel")
	add("reviews", "Post every vouch on file as an animated reel (admins only)")
	add("ticket [@user]", "Open a private ticket channel")
	add("close", "Close this ticket channel (owner only)")
	add("lock / unlock", "Stop or allow everyone sending messages in this channel")
	add("kick @user / ban @user", "Moderation, requires the matching permission")
	add("unban name#discriminator", "Lift a ban")
	add("userinfo [@user] / serverinfo / avatar [@user]", "Look things up")
	add("ping / coinflip / roll / 8ball <question> / meme", "The important stuff")
	return []Response{ResponseEmbed{embed}}
}
