package signboard

import "time"

// DefaultStatus is assigned to new signboards when no status is supplied.
const DefaultStatus = "在庫あり"

// Signboard is a rental/construction signboard tracked with an on-hand quantity.
type Signboard struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Comment     string    `json:"comment" gorm:"column:comment;index"`
	Description string    `json:"description" gorm:"column:description;type:text"`
	Size        string    `json:"size" gorm:"column:size"`
	Quantity    int       `json:"quantity" gorm:"column:quantity;default:1"`
	Location    string    `json:"location" gorm:"column:location"`
	Status      string    `json:"status" gorm:"column:status"`
	Notes       string    `json:"notes" gorm:"column:notes;type:text"`
	ImagePath   string    `json:"image_path" gorm:"column:image_path"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm table name
func (Signboard) TableName() string {
	return "signboards"
}
