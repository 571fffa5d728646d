package signboard

import "time"

// ChangeType identifies the direction of an audited quantity change.
type ChangeType string

const (
	ChangeAdd      ChangeType = "add"
	ChangeSubtract ChangeType = "subtract"
)

// QuantityHistory is one append-only ledger entry for a signboard quantity
// change. Entries are only written by the audited add/subtract operations;
// the quick increment/decrement corrections bypass the ledger.
type QuantityHistory struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	SignboardID    int64      `json:"signboard_id" gorm:"column:signboard_id;index;not null"`
	ChangeType     ChangeType `json:"change_type" gorm:"column:change_type;not null"`
	ChangeAmount   int        `json:"change_amount" gorm:"column:change_amount;not null"`
	QuantityBefore int        `json:"quantity_before" gorm:"column:quantity_before;not null"`
	QuantityAfter  int        `json:"quantity_after" gorm:"column:quantity_after;not null"`
	Reason         string     `json:"reason" gorm:"column:reason;not null"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the gorm table name
func (QuantityHistory) TableName() string {
	return "signboard_quantity_history"
}
