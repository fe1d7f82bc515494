package common

import (
	"github.com/bwmarrin/discordgo"
)

// HasManageGuild reports whether the invoking member may manage the guild.
// Interaction members carry their resolved channel permissions.
func HasManageGuild(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	perms := i.Member.Permissions
	return perms&discordgo.PermissionAdministrator != 0 || perms&discordgo.PermissionManageGuild != 0
}

// RequireManageGuild responds with an error and returns false when the
// invoking member lacks the manage-guild permission
func RequireManageGuild(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if HasManageGuild(i) {
		return true
	}
	RespondWithError(s, i, "You need the Manage Server permission to use this command")
	return false
}
