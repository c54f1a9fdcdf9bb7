package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/latoulicious/hutbot/pkg/database/models"
	"github.com/latoulicious/hutbot/pkg/logging"
	"gorm.io/gorm"
)

// LogRepository stores log entries in the command_logs table
type LogRepository struct {
	db *gorm.DB
}

var _ logging.LogRepository = (*LogRepository)(nil)

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// SaveLog implements logging.LogRepository
func (r *LogRepository) SaveLog(entry logging.LogEntry) error {
	return r.db.Create(ToModel(entry)).Error
}

// PruneBefore deletes every entry older than cutoff and reports how many rows went away
func (r *LogRepository) PruneBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", cutoff).Delete(&models.CommandLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune logs before %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}

// CountByLevel returns the number of entries per level since the given time
func (r *LogRepository) CountByLevel(since time.Time) (map[string]int64, error) {
	var rows []struct {
		Level string
		Count int64
	}
	if err := r.db.Model(&models.CommandLog{}).
		Select("level, COUNT(*) as count").
		Where("timestamp >= ?", since).
		Group("level").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Level] = row.Count
	}
	return counts, nil
}

// ToModel converts a logging entry into its database row
func ToModel(entry logging.LogEntry) *models.CommandLog {
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	component := entry.Component
	if component == "" {
		component = "system"
	}

	return &models.CommandLog{
		ID:        uuid.New(),
		Component: component,
		Level:     entry.Level,
		Message:   entry.Message,
		Error:     entry.Error,
		Fields:    entry.Fields,
		GuildID:   entry.GuildID,
		UserID:    entry.UserID,
		ChannelID: entry.ChannelID,
		Timestamp: timestamp,
	}
}
