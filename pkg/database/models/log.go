package models

import (
	"time"

	"github.com/google/uuid"
)

// CommandLog is a persisted log line emitted by the bot
type CommandLog struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	Component string                 `gorm:"index;not null;default:'system'" json:"component"` // "commands", "system", "minehut", ...
	Level     string                 `gorm:"index;not null" json:"level"`                      // INFO, ERROR, WARN
	Message   string                 `gorm:"type:text;not null" json:"message"`
	Error     string                 `gorm:"type:text" json:"error"`
	Fields    map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"fields"`
	GuildID   string                 `gorm:"index" json:"guild_id"`
	UserID    string                 `gorm:"index" json:"user_id"`
	ChannelID string                 `gorm:"index" json:"channel_id"`
	Timestamp time.Time              `gorm:"index;not null" json:"timestamp"`
}

// TableName returns the table name for CommandLog
func (CommandLog) TableName() string {
	return "command_logs"
}
