package common

import (
	"errors"
	"fmt"

	"sincroni/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string      // Message shown to Discord user
	LogMessage  string      // Internal message for logging
	Ephemeral   bool        // Whether the error message should be ephemeral
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromDomainError turns a service error into a BotError. Validation errors
// are shown to the admin verbatim, including the offending value.
func FromDomainError(err error, logMessage string) *BotError {
	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		botErr := NewUserError(validationErr.Error(), logMessage)
		botErr.Err = err
		return botErr
	}

	var persistenceErr *entities.PersistenceError
	if errors.As(err, &persistenceErr) {
		botErr := NewSystemError(err, logMessage)
		botErr.UserMessage = "The change could not be saved. Please try again later."
		botErr.Context = persistenceErr.Op
		return botErr
	}

	return NewSystemError(err, logMessage)
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         fmt.Sprintf("❌ %s", message),
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: NoMentions(),
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// HandleError logs err and responds to the interaction with its user message
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	fields := log.Fields{
		"guild_id": i.GuildID,
		"command":  i.ApplicationCommandData().Name,
		"error":    err.Error(),
	}
	if i.Member != nil && i.Member.User != nil {
		fields["user_id"] = i.Member.User.ID
	}

	var botErr *BotError
	if errors.As(err, &botErr) {
		fields["user_message"] = botErr.UserMessage
		if botErr.Context != nil {
			fields["context"] = botErr.Context
		}

		entry := log.WithFields(fields)
		if errors.As(err, new(*entities.ValidationError)) {
			entry.Info(botErr.LogMessage)
		} else {
			entry.Error(botErr.LogMessage)
		}

		RespondWithError(s, i, botErr.UserMessage)
		return
	}

	log.WithFields(fields).Error("Unexpected error in bot command")
	RespondWithError(s, i, "Something went wrong. Please try again later.")
}
