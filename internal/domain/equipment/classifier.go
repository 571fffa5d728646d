package equipment

import (
	"strings"

	"golang.org/x/text/width"
)

// categoryRule maps a nameplate pattern to a tool category. Rules are an
// ordered slice because earlier entries win: the model-prefix rules at the top
// are more specific than the generic name keywords below them.
type categoryRule struct {
	pattern  string
	category string
}

var categoryRules = []categoryRule{
	{"MVH", "プレートコンパクター"},
	{"MVC", "プレートコンパクター"},
	{"MT-", "ランマー"},
	{"MTX", "ランマー"},
	{"MRH", "ランマー"},
	{"MGC", "カッター"},
	{"MCD", "コアドリル"},
	{"MSB", "ブレーカー"},
	{"プレート", "プレートコンパクター"},
	{"コンパクター", "プレートコンパクター"},
	{"ランマ", "ランマー"},
	{"タンパ", "ランマー"},
	{"バイブレータ", "バイブレーター"},
	{"発電機", "発電機"},
	{"溶接機", "溶接機"},
	{"コンプレッサ", "コンプレッサー"},
	{"ブレーカ", "ブレーカー"},
	{"ドリル", "ドリル"},
	{"カッター", "カッター"},
	{"ポンプ", "ポンプ"},
	{"チェーンソー", "チェーンソー"},
	{"草刈", "草刈機"},
	{"刈払", "草刈機"},
}

// ClassifyTool derives a tool category from the equipment name and model
// number. Model-number patterns are checked first since they identify the
// machine type more reliably than free-text names; name keywords are the
// fallback. Returns "" when nothing matches.
func ClassifyTool(name, modelNumber string) string {
	// Nameplate OCR often yields full-width ASCII, fold it before matching.
	model := strings.ToUpper(width.Narrow.String(modelNumber))
	if model != "" {
		for _, r := range categoryRules {
			if strings.Contains(model, strings.ToUpper(r.pattern)) {
				return r.category
			}
		}
	}
	if name != "" {
		for _, r := range categoryRules {
			if strings.Contains(name, r.pattern) {
				return r.category
			}
		}
	}
	return ""
}
