package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"sincroni/domain/entities"
	"sincroni/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// NamedColors is the palette accepted by name in color commands
var NamedColors = map[string]int{
	"blue":         0x3498DB,
	"blurple":      0x5865F2,
	"brand_green":  0x57F287,
	"brand_red":    0xED4245,
	"dark_blue":    0x206694,
	"dark_embed":   0x2B2D31,
	"dark_gold":    0xC27C0E,
	"dark_gray":    0x607D8B,
	"dark_green":   0x1F8B4C,
	"dark_grey":    0x607D8B,
	"dark_magenta": 0xAD1457,
	"dark_orange":  0xA84300,
	"dark_purple":  0x71368A,
	"dark_red":     0x992D22,
	"dark_teal":    0x11806A,
	"dark_theme":   0x313338,
	"darker_gray":  0x546E7A,
	"darker_grey":  0x546E7A,
	"fuchsia":      0xEB459E,
	"gold":         0xF1C40F,
	"green":        0x2ECC71,
	"greyple":      0x99AAB5,
	"light_embed":  0xEEEFF1,
	"light_gray":   0x979C9F,
	"light_grey":   0x979C9F,
	"lighter_gray": 0x95A5A6,
	"lighter_grey": 0x95A5A6,
	"magenta":      0xE91E63,
	"og_blurple":   0x7289DA,
	"orange":       0xE67E22,
	"pink":         0xEB459F,
	"purple":       0x9B59B6,
	"red":          0xE74C3C,
	"teal":         0x1ABC9C,
	"yellow":       0xFEE75C,
}

// ColorNames returns the palette names in alphabetical order
func ColorNames() []string {
	names := make([]string, 0, len(NamedColors))
	for name := range NamedColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseColor converts admin input into a 24-bit color. Accepted forms are
// decimal digits, a palette name, "random", "#RRGGBB", "0xRRGGBB" and
// "rgb(r, g, b)". randIntn supplies the random color and may be nil.
func ParseColor(raw string, randIntn func(n int) int) (int, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, entities.NewValidationError("color", raw, "a color is required")
	}

	var (
		color int
		err   error
	)
	switch {
	case isDigits(value):
		var n int64
		n, err = strconv.ParseInt(value, 10, 64)
		color = int(n)
	case value == "random":
		if randIntn == nil {
			randIntn = rand.IntN
		}
		color = randIntn(entities.MaxColorValue + 1)
	case strings.HasPrefix(value, "#"):
		color, err = parseHex(value[1:])
	case strings.HasPrefix(value, "0x"):
		color, err = parseHex(value[2:])
	case strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")"):
		color, err = parseRGB(value[4 : len(value)-1])
	default:
		named, ok := NamedColors[value]
		if !ok {
			return 0, entities.NewValidationError("color", raw, "must be a hex code, digits, 'random', or one of: "+strings.Join(ColorNames(), ", "))
		}
		color = named
	}

	if err != nil {
		return 0, entities.NewValidationError("color", raw, err.Error())
	}
	if color < 0 || color > entities.MaxColorValue {
		return 0, entities.NewValidationError("color", raw, "must be between 0 and 0xFFFFFF")
	}
	return color, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func parseHex(s string) (int, error) {
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, fmt.Errorf("hex colors need 3 or 6 digits")
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a hex number", s)
	}
	return int(n), nil
}

func parseRGB(s string) (int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("rgb colors need three components")
	}
	color := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 255 {
			return 0, fmt.Errorf("rgb component %q must be between 0 and 255", strings.TrimSpace(part))
		}
		color = color<<8 | n
	}
	return color, nil
}

// EmbedColorService manages per-guild relay embed colors
type EmbedColorService struct {
	registry interfaces.Registry
	randIntn func(n int) int
}

// NewEmbedColorService creates a new EmbedColorService
func NewEmbedColorService(registry interfaces.Registry) *EmbedColorService {
	return &EmbedColorService{registry: registry, randIntn: rand.IntN}
}

// Preview parses a color without storing it
func (s *EmbedColorService) Preview(raw string) (int, error) {
	return ParseColor(raw, s.randIntn)
}

// Set parses raw and stores it as the guild's color for chatType, replacing
// any existing override
func (s *EmbedColorService) Set(ctx context.Context, serverID int64, chatType entities.ChatType, raw string) (*entities.EmbedColorOverride, error) {
	if !chatType.IsBroadcast() {
		return nil, entities.NewValidationError("chat type", chatType.String(), "only public, developer and repeat chats have colors")
	}
	color, err := ParseColor(raw, s.randIntn)
	if err != nil {
		return nil, err
	}
	return s.SetValue(ctx, serverID, chatType, color)
}

// SetValue stores an already parsed color
func (s *EmbedColorService) SetValue(ctx context.Context, serverID int64, chatType entities.ChatType, color int) (*entities.EmbedColorOverride, error) {
	override, err := s.registry.SetEmbedColor(ctx, serverID, chatType, color)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guild_id":  serverID,
		"chat_type": chatType.String(),
		"color":     fmt.Sprintf("#%06X", color),
	}).Info("Set embed color")
	return override, nil
}

// Clear removes the guild's color for chatType
func (s *EmbedColorService) Clear(ctx context.Context, serverID int64, chatType entities.ChatType) (*entities.EmbedColorOverride, error) {
	if s.registry.EmbedColor(serverID, chatType) == nil {
		return nil, entities.NewValidationError("chat type", chatType.String(), "has no custom color")
	}

	removed, err := s.registry.ClearEmbedColor(ctx, serverID, chatType)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, entities.NewValidationError("chat type", chatType.String(), "has no custom color")
	}

	log.WithFields(log.Fields{
		"guild_id":  serverID,
		"chat_type": chatType.String(),
	}).Info("Cleared embed color")
	return removed, nil
}

// Current returns the guild's override for chatType, or nil
func (s *EmbedColorService) Current(serverID int64, chatType entities.ChatType) *entities.EmbedColorOverride {
	return s.registry.EmbedColor(serverID, chatType)
}
