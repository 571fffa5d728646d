package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	t.Run("parses fenced JSON", func(t *testing.T) {
		out := "```json\n{\"equipment_name\": \"発電機\", \"model_number\": \"GA-2605\", \"manufacturer\": \"デンヨー\"}\n```"
		fields, err := ParseFields(out)
		require.NoError(t, err)
		assert.Equal(t, "発電機", fields.EquipmentName)
		assert.Equal(t, "GA-2605", fields.ModelNumber)
		assert.True(t, fields.HasIdentifyingInfo())
	})

	t.Run("folds placeholder values to empty", func(t *testing.T) {
		out := `{"equipment_name": "不明", "model_number": "N/A", "serial_number": "-", "manufacturer": ""}`
		fields, err := ParseFields(out)
		require.NoError(t, err)
		assert.Empty(t, fields.EquipmentName)
		assert.Empty(t, fields.ModelNumber)
		assert.Empty(t, fields.SerialNumber)
		assert.False(t, fields.HasIdentifyingInfo())
	})

	t.Run("rejects output with no JSON", func(t *testing.T) {
		_, err := ParseFields("すみません、読み取れませんでした。")
		assert.Error(t, err)
	})
}

func TestNormalizeWeight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain number gets unit", "62", "62 kg"},
		{"strips existing unit", "62kg", "62 kg"},
		{"strips japanese unit", "約73キロ", "73 kg"},
		{"decimal weight", "10.5 kg", "10.5 kg"},
		{"empty stays empty", "", ""},
		{"whitespace stays empty", "   ", ""},
		{"no digits returned untouched", "不明", "不明"},
		{"malformed number returned untouched", "1.2.3kg", "1.2.3kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeWeight(tt.input))
		})
	}
}
