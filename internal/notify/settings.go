package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

const settingsKey = "notifications"

// defaultSettings is the fail-open default: a missing configuration row must
// never block order creation or notification.
var defaultSettings = models.NotificationSettings{Email: true, Telegram: true}

// SettingsStore reads and writes the global notification toggles held in the
// schemaless settings table. First read lazily seeds the default row with an
// ON CONFLICT DO NOTHING upsert, so concurrent first readers stay idempotent.
type SettingsStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSettingsStore(db *sql.DB, logger *logrus.Logger) *SettingsStore {
	return &SettingsStore{db: db, logger: logger}
}

func (s *SettingsStore) CreateTables() error {
	query := `CREATE TABLE IF NOT EXISTS settings (
		name VARCHAR(64) PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create settings schema: %w", err)
	}
	return nil
}

// GetNotificationSettings returns the global per-channel toggles, creating
// the default row if none exists yet.
func (s *SettingsStore) GetNotificationSettings(ctx context.Context) (models.NotificationSettings, error) {
	defaults, err := json.Marshal(defaultSettings)
	if err != nil {
		return defaultSettings, fmt.Errorf("failed to marshal default settings: %w", err)
	}

	upsert := `INSERT INTO settings (name, value) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, upsert, settingsKey, defaults); err != nil {
		return defaultSettings, fmt.Errorf("failed to seed default settings: %w", err)
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = $1`, settingsKey).Scan(&raw)
	if err != nil {
		return defaultSettings, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := defaultSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.WithError(err).Warn("Malformed notification settings row, using defaults")
		return defaultSettings, nil
	}
	return settings, nil
}

// UpdateNotificationSettings overwrites the toggles. Called from the admin
// settings screen.
func (s *SettingsStore) UpdateNotificationSettings(ctx context.Context, settings models.NotificationSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `INSERT INTO settings (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := s.db.ExecContext(ctx, query, settingsKey, value); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
