// Package excel renders inventory lists as xlsx workbooks.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/equipment/backend/internal/domain/equipment"
	"github.com/equipment/backend/internal/domain/signboard"
)

const timeLayout = "2006-01-02 15:04"

var equipmentHeaders = []string{
	"ID", "機材名", "型番", "シリアル番号", "メーカー", "カテゴリ",
	"重量", "出力", "エンジン型式", "製造年", "仕様", "数量", "備考", "登録日時",
}

var signboardHeaders = []string{
	"ID", "看板内容", "説明", "サイズ", "数量", "保管場所", "状態", "備考", "登録日時",
}

// Exporter builds xlsx files from inventory records
type Exporter struct{}

// NewExporter creates an Exporter
func NewExporter() *Exporter { return &Exporter{} }

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportEquipment renders the given equipment records as an xlsx workbook
func (e *Exporter) ExportEquipment(items []*equipment.Equipment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "機材一覧"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, eq := range items {
		rows = append(rows, []interface{}{
			eq.ID, eq.Name, eq.ModelNumber, eq.SerialNumber, eq.Manufacturer,
			eq.ToolCategory, eq.Weight, eq.OutputPower, eq.EngineModel,
			eq.YearManufactured, eq.Specifications, eq.Quantity, eq.Notes,
			eq.CreatedAt.Format(timeLayout),
		})
	}
	if err := writeSheet(f, sheet, equipmentHeaders, rows); err != nil {
		return nil, fmt.Errorf("write equipment sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportSignboards renders the given signboards as an xlsx workbook
func (e *Exporter) ExportSignboards(items []*signboard.Signboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "看板一覧"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, sb := range items {
		rows = append(rows, []interface{}{
			sb.ID, sb.Comment, sb.Description, sb.Size, sb.Quantity,
			sb.Location, sb.Status, sb.Notes,
			sb.CreatedAt.Format(timeLayout),
		})
	}
	if err := writeSheet(f, sheet, signboardHeaders, rows); err != nil {
		return nil, fmt.Errorf("write signboard sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
