package globalchat

import (
	"fmt"
	"strconv"
	"strings"

	"sincroni/bot/common"
	"sincroni/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxChoices is the most suggestions Discord accepts per autocomplete response
const maxChoices = 25

type guildCandidate struct {
	ID   int64
	Name string
}

// HandleAutocomplete suggests values for the focused /global option
func (f *Feature) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	focused := focusedOption(sub.Options)
	if focused == nil {
		return
	}

	guildID, _ := common.ParseSnowflake(i.GuildID)
	current := focused.StringValue()

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch {
	case sub.Name == "color" && focused.Name == "color":
		choices = colorChoices(current)
	case sub.Name == "blacklist" && focused.Name == "server":
		choices = guildChoices(f.guildCandidates(s, f.globalChats.LinkedServers(guildID)), current)
	case sub.Name == "unblacklist" && focused.Name == "server":
		var ids []int64
		for _, entry := range f.blacklists.ListServerEntries(guildID) {
			ids = append(ids, entry.EntityID)
		}
		choices = guildChoices(f.guildCandidates(s, ids), current)
	default:
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		log.WithError(err).WithField("subcommand", sub.Name).Warn("Failed to send autocomplete choices")
	}
}

func focusedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range opts {
		if opt.Focused {
			return opt
		}
	}
	return nil
}

// guildCandidates names guilds from the state cache. Guilds missing from the
// cache are offered by id alone.
func (f *Feature) guildCandidates(s *discordgo.Session, ids []int64) []guildCandidate {
	out := make([]guildCandidate, 0, len(ids))
	for _, id := range ids {
		name := ""
		if s.State != nil {
			if g, err := s.State.Guild(common.FormatSnowflake(id)); err == nil {
				name = g.Name
			}
		}
		out = append(out, guildCandidate{ID: id, Name: name})
	}
	return out
}

// guildChoices returns the candidates whose name or id starts with current.
// Without a match every candidate is offered.
func guildChoices(candidates []guildCandidate, current string) []*discordgo.ApplicationCommandOptionChoice {
	prefix := strings.ToLower(strings.TrimSpace(current))
	all := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(candidates))
	var matched []*discordgo.ApplicationCommandOptionChoice
	for _, c := range candidates {
		id := strconv.FormatInt(c.ID, 10)
		label := id
		if c.Name != "" {
			label = truncate(fmt.Sprintf("%s (%s)", c.Name, id), 100)
		}
		choice := &discordgo.ApplicationCommandOptionChoice{Name: label, Value: id}
		all = append(all, choice)
		if prefix != "" && (strings.HasPrefix(strings.ToLower(c.Name), prefix) || strings.HasPrefix(id, prefix)) {
			matched = append(matched, choice)
		}
	}
	return limitChoices(matched, all)
}

// colorChoices suggests palette names plus the random and reset keywords
func colorChoices(current string) []*discordgo.ApplicationCommandOptionChoice {
	prefix := strings.ToLower(strings.TrimSpace(current))
	all := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "reset (server default)", Value: "reset"},
		{Name: "random", Value: "random"},
	}
	for _, name := range services.ColorNames() {
		all = append(all, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", name, common.FormatColorHex(services.NamedColors[name])),
			Value: name,
		})
	}

	var matched []*discordgo.ApplicationCommandOptionChoice
	if prefix != "" {
		for _, choice := range all {
			if strings.HasPrefix(choice.Value.(string), prefix) {
				matched = append(matched, choice)
			}
		}
	}
	return limitChoices(matched, all)
}

func limitChoices(matched, all []*discordgo.ApplicationCommandOptionChoice) []*discordgo.ApplicationCommandOptionChoice {
	out := matched
	if len(out) == 0 {
		out = all
	}
	if len(out) > maxChoices {
		out = out[:maxChoices]
	}
	return out
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
