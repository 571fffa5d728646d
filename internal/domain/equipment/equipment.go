package equipment

import (
	"strings"
	"time"
)

// Equipment is a single piece of construction equipment tracked in inventory.
// Most fields are optional: records are usually born from OCR/LLM extraction
// and arrive with whatever the nameplate photo happened to contain.
type Equipment struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string    `json:"equipment_name" gorm:"column:equipment_name;index"`
	ModelNumber      string    `json:"model_number" gorm:"column:model_number;index"`
	SerialNumber     string    `json:"serial_number" gorm:"column:serial_number"`
	PurchaseDate     string    `json:"purchase_date" gorm:"column:purchase_date"`
	ToolCategory     string    `json:"tool_category" gorm:"column:tool_category;index"`
	Manufacturer     string    `json:"manufacturer" gorm:"column:manufacturer;index"`
	Weight           string    `json:"weight" gorm:"column:weight"`
	OutputPower      string    `json:"output_power" gorm:"column:output_power"`
	EngineModel      string    `json:"engine_model" gorm:"column:engine_model"`
	YearManufactured string    `json:"year_manufactured" gorm:"column:year_manufactured"`
	Specifications   string    `json:"specifications" gorm:"column:specifications"`
	RawText          string    `json:"raw_text" gorm:"column:raw_text;type:text"`
	OCREngine        string    `json:"ocr_engine" gorm:"column:ocr_engine"`
	LLMEngine        *string   `json:"llm_engine" gorm:"column:llm_engine"`
	FileName         string    `json:"file_name" gorm:"column:file_name"`
	ImagePath        string    `json:"image_path" gorm:"column:image_path"`
	Quantity         int       `json:"quantity" gorm:"column:quantity;default:1"`
	Notes            string    `json:"notes" gorm:"column:notes;type:text"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the gorm table name
func (Equipment) TableName() string {
	return "equipment"
}

// HasIdentifyingInfo reports whether the record carries at least one of the
// fields that make it useful as an inventory entry. Extraction results that
// fail this check are treated as misses.
func (e *Equipment) HasIdentifyingInfo() bool {
	for _, v := range []string{e.Name, e.ModelNumber, e.Manufacturer, e.SerialNumber} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// EnsureCategory fills ToolCategory from the classifier when it is empty.
// Categories set explicitly by the user are never overwritten.
func (e *Equipment) EnsureCategory() {
	if e.ToolCategory == "" {
		e.ToolCategory = ClassifyTool(e.Name, e.ModelNumber)
	}
}
