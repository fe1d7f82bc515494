package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sincroni/domain/entities"
)

// ParseSnowflake converts a Discord id string into an int64
func ParseSnowflake(id string) (int64, error) {
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	return value, nil
}

// FormatSnowflake converts an int64 id back into Discord's string form
func FormatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ChannelMention renders a clickable channel reference
func ChannelMention(channelID int64) string {
	return fmt.Sprintf("<#%d>", channelID)
}

// FormatColorHex renders a color as #RRGGBB
func FormatColorHex(color int) string {
	return fmt.Sprintf("#%06X", color)
}

// FormatScopes renders a scope set as a comma separated list of chat names
func FormatScopes(scopes entities.ScopeSet) string {
	types := scopes.Types()
	if len(types) == 0 {
		return "none"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = "`" + t.String() + "`"
	}
	return strings.Join(names, ", ")
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
