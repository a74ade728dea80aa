package checkin

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"
)

// ConfigSource is the configuration collaborator for the scheduler and
// the interview engine. Implementations re-read on every call; callers
// never cache across a tick so edits take effect without a restart.
type ConfigSource interface {
	ReadGroups() ([]*GroupConfig, error)
	ReadGlobalSuppressionDates() ([]DNDDate, error)
}

type groupRecord struct {
	ID       string `gorm:"primaryKey"`
	Document string
}

func (groupRecord) TableName() string { return "groups" }

type suppressionRecord struct {
	Date string `gorm:"primaryKey"`
	Name string
}

func (suppressionRecord) TableName() string { return "global_dnd_dates" }

// Store keeps group configuration documents and the global suppression
// list in a database, one JSON document per group.
type Store struct {
	db *gorm.DB
}

var _ ConfigSource = (*Store)(nil)

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&groupRecord{}, &suppressionRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) ReadGroups() ([]*GroupConfig, error) {
	var records []groupRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	groups := make([]*GroupConfig, 0, len(records))
	for _, rec := range records {
		gc, err := DecodeGroup([]byte(rec.Document))
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", rec.ID, err)
		}
		if gc.ID == "" {
			gc.ID = rec.ID
		}
		groups = append(groups, gc)
	}
	return groups, nil
}

func (s *Store) SaveGroup(gc *GroupConfig) error {
	doc, err := json.Marshal(gc)
	if err != nil {
		return err
	}
	return s.db.Save(&groupRecord{ID: gc.ID, Document: string(doc)}).Error
}

func (s *Store) DeleteGroup(id string) error {
	return s.db.Delete(&groupRecord{ID: id}).Error
}

func (s *Store) ReadGlobalSuppressionDates() ([]DNDDate, error) {
	var records []suppressionRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	dates := make([]DNDDate, 0, len(records))
	for _, rec := range records {
		dates = append(dates, DNDDate{Date: rec.Date, Name: rec.Name})
	}
	return dates, nil
}

func (s *Store) SaveGlobalSuppressionDate(d DNDDate) error {
	return s.db.Save(&suppressionRecord{Date: d.Date, Name: d.Name}).Error
}

// DecodeGroup parses a group configuration document, normalizing textual
// question entries into {key, text} records.
func DecodeGroup(document []byte) (*GroupConfig, error) {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(document, &raw); err != nil {
		return nil, err
	}

	if qs, ok := raw["questions"]; ok {
		raw["questions"] = normalizeQuestions(qs)
	}
	if ss, ok := raw["schedules"].([]interface{}); ok {
		for _, entry := range ss {
			if sched, ok := entry.(map[string]interface{}); ok {
				if qs, ok := sched["questions"]; ok {
					sched["questions"] = normalizeQuestions(qs)
				}
			}
		}
	}

	gc := &GroupConfig{}
	if err := decodeWithJSONTags(raw, gc); err != nil {
		return nil, err
	}
	return gc, nil
}

// normalizeQuestions accepts a raw question list whose entries are either
// plain strings or {key, text} objects and returns uniform objects.
// Duplicate keys collapse to the latest definition, keeping the position
// of the first occurrence.
func normalizeQuestions(raw interface{}) []map[string]interface{} {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	normalized := []map[string]interface{}{}
	byKey := map[string]int{}

	for _, entry := range entries {
		var key, text string

		switch q := entry.(type) {
		case string:
			key, text = q, q
		case map[string]interface{}:
			key, _ = q["key"].(string)
			text, _ = q["text"].(string)
			if key == "" {
				key = text
			}
		default:
			continue
		}

		if idx, seen := byKey[key]; seen {
			normalized[idx]["text"] = text
			continue
		}

		byKey[key] = len(normalized)
		normalized = append(normalized, map[string]interface{}{"key": key, "text": text})
	}

	return normalized
}

func decodeWithJSONTags(input interface{}, output interface{}) error {
	config := &mapstructure.DecoderConfig{
		Metadata:         nil,
		WeaklyTypedInput: true,
		Result:           output,
		TagName:          "json",
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
