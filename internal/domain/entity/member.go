package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/enum"
)

// Member represents a loyalty member
type Member struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Code       string          `gorm:"size:100;unique;not null" json:"code"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Phone      *string         `gorm:"size:50" json:"phone,omitempty"`
	Email      *string         `gorm:"size:255" json:"email,omitempty"`
	Address    *string         `gorm:"type:text" json:"address,omitempty"`
	Points     int             `gorm:"default:0" json:"points"`
	TotalSpent decimal.Decimal `gorm:"type:numeric(18,2);default:0" json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	PointEntries []MemberPointEntry `gorm:"foreignKey:MemberID" json:"-"`
	Transactions []Transaction      `gorm:"foreignKey:MemberID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new member
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Member model
func (Member) TableName() string {
	return "members"
}

// MemberPointEntry is an append-only record of a point change. Earned and
// redeemed deltas from the same checkout are stored as two entries, not netted.
type MemberPointEntry struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	MemberID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"member_id"`
	TransactionID *uuid.UUID          `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	Type          enum.PointEntryType `gorm:"size:20;not null" json:"type"`
	Points        int                 `gorm:"not null" json:"points"`
	Note          *string             `gorm:"size:255" json:"note,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`

	// Relationships
	Member Member `gorm:"foreignKey:MemberID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new point entry
func (e *MemberPointEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MemberPointEntry model
func (MemberPointEntry) TableName() string {
	return "member_point_entries"
}
