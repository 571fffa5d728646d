package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTool(t *testing.T) {
	tests := []struct {
		name        string
		toolName    string
		modelNumber string
		expected    string
	}{
		{"model prefix MVH", "", "MVH-200", "プレートコンパクター"},
		{"model prefix beats name keyword", "発電機", "MVH-200", "プレートコンパクター"},
		{"lowercase model", "", "mvh-120", "プレートコンパクター"},
		{"full-width model digits", "", "ＭＶＨ－２００", "プレートコンパクター"},
		{"rammer prefix", "", "MT-55", "ランマー"},
		{"core drill", "", "MCD-200", "コアドリル"},
		{"name keyword generator", "発電機 2.5kVA", "", "発電機"},
		{"name keyword welder", "インバーター溶接機", "", "溶接機"},
		{"name keyword brush cutter", "草刈機", "", "草刈機"},
		{"name tampa maps to rammer", "タンパ", "", "ランマー"},
		{"no match", "謎の機械", "ZZZ-1", ""},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTool(tt.toolName, tt.modelNumber))
		})
	}
}

func TestEquipmentHasIdentifyingInfo(t *testing.T) {
	assert.False(t, (&Equipment{}).HasIdentifyingInfo())
	assert.False(t, (&Equipment{Name: "   "}).HasIdentifyingInfo())
	assert.True(t, (&Equipment{ModelNumber: "MVH-200"}).HasIdentifyingInfo())
	assert.True(t, (&Equipment{SerialNumber: "S-1"}).HasIdentifyingInfo())
}

func TestEnsureCategory(t *testing.T) {
	eq := &Equipment{Name: "発電機", ModelNumber: ""}
	eq.EnsureCategory()
	assert.Equal(t, "発電機", eq.ToolCategory)

	// explicit category is not overwritten
	eq = &Equipment{Name: "発電機", ToolCategory: "その他"}
	eq.EnsureCategory()
	assert.Equal(t, "その他", eq.ToolCategory)
}
