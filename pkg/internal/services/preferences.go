package services

import (
	"context"
	"fmt"
	"sort"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceProvider struct {
	db *gorm.DB
}

func NewPreferenceProvider(db *gorm.DB) *PreferenceProvider {
	return &PreferenceProvider{db: db}
}

// Open loads every preference of the caller's portlet instance.
func (v *PreferenceProvider) Open(ctx context.Context, rc models.RequestContext) (*PreferenceSession, error) {
	var items []models.Preference
	if err := v.db.WithContext(ctx).
		Where("owner = ? AND instance = ?", rc.Owner(), rc.Instance).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("unable to load preferences: %v", err)
	}

	return &PreferenceSession{
		db:       v.db,
		owner:    rc.Owner(),
		instance: rc.Instance,
		values: lo.SliceToMap(items, func(item models.Preference) (string, []string) {
			return item.Name, item.Values
		}),
		pending: make(map[string][]string),
	}, nil
}

// PreferenceSession holds one scope's preferences, changes stay pending until Store.
type PreferenceSession struct {
	db       *gorm.DB
	owner    string
	instance string
	values   map[string][]string
	pending  map[string][]string
}

func (v *PreferenceSession) GetValue(key, def string) string {
	if val, ok := v.pending[key]; ok && len(val) > 0 {
		return val[0]
	}
	if val, ok := v.values[key]; ok && len(val) > 0 {
		return val[0]
	}
	return def
}

func (v *PreferenceSession) SetValue(key, value string) {
	v.pending[key] = []string{value}
}

func (v *PreferenceSession) Store(ctx context.Context) error {
	if len(v.pending) == 0 {
		return nil
	}

	keys := lo.Keys(v.pending)
	sort.Strings(keys)
	items := lo.Map(keys, func(key string, _ int) models.Preference {
		return models.Preference{
			Owner:    v.owner,
			Instance: v.instance,
			Name:     key,
			Values:   v.pending[key],
		}
	})

	if err := v.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "instance"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value_list", "updated_at"}),
	}).Create(&items).Error; err != nil {
		return fmt.Errorf("unable to store preferences: %v", err)
	}

	for key, val := range v.pending {
		v.values[key] = val
	}
	clear(v.pending)
	return nil
}
