package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/equipment/backend/internal/infrastructure/llm"
)

// Fields is the structured extraction result parsed from model output
type Fields struct {
	EquipmentName    string `json:"equipment_name"`
	ModelNumber      string `json:"model_number"`
	SerialNumber     string `json:"serial_number"`
	Manufacturer     string `json:"manufacturer"`
	Weight           string `json:"weight"`
	OutputPower      string `json:"output_power"`
	EngineModel      string `json:"engine_model"`
	YearManufactured string `json:"year_manufactured"`
	Specifications   string `json:"specifications"`
}

// HasIdentifyingInfo reports whether the result carries at least one field
// that identifies the machine. Results failing this check are treated as
// extraction misses.
func (f *Fields) HasIdentifyingInfo() bool {
	for _, v := range []string{f.EquipmentName, f.ModelNumber, f.Manufacturer, f.SerialNumber} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// ParseFields extracts the first JSON object from raw model output and
// decodes it. Placeholder values the model uses for unknowns are folded to
// empty strings.
func ParseFields(output string) (*Fields, error) {
	obj, err := llm.FirstJSONObject(output)
	if err != nil {
		return nil, err
	}

	var f Fields
	if err := json.Unmarshal([]byte(obj), &f); err != nil {
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}

	f.EquipmentName = cleanValue(f.EquipmentName)
	f.ModelNumber = cleanValue(f.ModelNumber)
	f.SerialNumber = cleanValue(f.SerialNumber)
	f.Manufacturer = cleanValue(f.Manufacturer)
	f.Weight = cleanValue(f.Weight)
	f.OutputPower = cleanValue(f.OutputPower)
	f.EngineModel = cleanValue(f.EngineModel)
	f.YearManufactured = cleanValue(f.YearManufactured)
	f.Specifications = cleanValue(f.Specifications)
	return &f, nil
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "不明", "なし", "null", "N/A", "-":
		return ""
	}
	return v
}

// NormalizeWeight strips units and noise from an extracted weight and
// renders it as "<number> kg". Values that don't reduce to a number are
// returned untouched; empty stays empty.
func NormalizeWeight(w string) string {
	if strings.TrimSpace(w) == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range w {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return w
	}
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return w
	}
	return cleaned + " kg"
}
