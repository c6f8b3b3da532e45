package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"gorm.io/gorm"
)

// RefreshDBConfigSnapshot reloads every settings row and swaps the in-memory
// snapshot. It runs once at startup and then on the refresher's interval, so
// quota limits and cache TTLs track admin edits without a restart.
func RefreshDBConfigSnapshot(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("settings: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Setting
	errFind := db.WithContext(ctx).
		Select("key", "value", "updated_at").
		Find(&rows).Error
	if errFind != nil {
		return errFind
	}

	values := make(map[string]json.RawMessage, len(rows))
	latest := snapshotVersion{}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		values[key] = row.Value
		latest.observe(key, row.UpdatedAt.UTC())
	}

	StoreDBConfig(latest.at, values)
	return nil
}

// snapshotVersion tracks the newest updated_at seen across rows, with the key
// as a tiebreak so the version is stable for a given table state.
type snapshotVersion struct {
	at  time.Time
	key string
}

func (v *snapshotVersion) observe(key string, at time.Time) {
	if at.After(v.at) || (at.Equal(v.at) && key > v.key) {
		v.at = at
		v.key = key
	}
}
