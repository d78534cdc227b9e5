package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slotRecord is the gorm model backing one persisted cart slot.
type slotRecord struct {
	SlotKey   string `gorm:"primaryKey;column:slot_key"`
	Payload   string `gorm:"column:payload"`
	UpdatedAt time.Time
}

func (slotRecord) TableName() string {
	return "cart_slots"
}

// SQLitePersister stores cart slots in a local sqlite file, the gateway's
// analog of the browser's local storage.
type SQLitePersister struct {
	db *gorm.DB
}

func NewSQLitePersister(path string) (*SQLitePersister, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cart db: %w", err)
	}
	if err := db.AutoMigrate(&slotRecord{}); err != nil {
		return nil, fmt.Errorf("migrate cart db: %w", err)
	}
	return &SQLitePersister{db: db}, nil
}

func (p *SQLitePersister) Load(ctx context.Context, slot string) ([]Line, error) {
	var record slotRecord
	err := p.db.WithContext(ctx).First(&record, "slot_key = ?", slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart slot: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal([]byte(record.Payload), &lines); err != nil {
		return nil, fmt.Errorf("decode cart slot: %w", err)
	}
	return lines, nil
}

func (p *SQLitePersister) Save(ctx context.Context, slot string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart slot: %w", err)
	}
	record := slotRecord{SlotKey: slot, Payload: string(payload), UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).Save(&record).Error
}

func (p *SQLitePersister) Clear(ctx context.Context, slot string) error {
	return p.db.WithContext(ctx).Delete(&slotRecord{}, "slot_key = ?", slot).Error
}
