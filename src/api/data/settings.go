package data

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusimpact/govdash/src/api/types"
)

// Setting names used by the service.
const (
	SettingTreasuryBalance = "treasury_total_balance"
	SettingCurrencyPrefix  = "currency_prefix"
)

// Settings reads named values from the settings table. It is a thin
// handle, not a cache: treasury balance changes out-of-band and callers
// want the current row.
type Settings struct {
	db *gorm.DB
}

func NewSettings(db *gorm.DB) Settings { return Settings{db: db} }

func (s Settings) Get(name string) (string, error) {
	var row types.Setting
	if err := s.db.Where("name = ? AND active = 1", name).First(&row).Error; err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s Settings) GetFloat(name string) (float64, error) {
	v, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(v, 64)
}

// Seed upserts a setting, used at startup for config-supplied defaults.
func (s Settings) Seed(name, value string) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "active"}),
	}).Create(&types.Setting{Name: name, Value: value, Active: 1}).Error
}
