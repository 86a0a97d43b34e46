package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"kol360-data/internal/domain"

	"github.com/xuri/excelize/v2"
)

// HcpExportHeader 专家注册库导出表头
var HcpExportHeader = []string{
	"NPI",
	"First Name",
	"Last Name",
	"Specialty",
	"Status",
	"Aliases",
	"Created At",
}

// HcpImportHeader 导入模板表头（别名用 | 分隔）
var HcpImportHeader = []string{
	"NPI",
	"First Name",
	"Last Name",
	"Specialty",
	"Aliases",
}

const hcpSheetName = "HCP Registry"

// GenerateHcpExport 生成专家注册库导出 Excel 文件
func GenerateHcpExport(hcps []*domain.Hcp) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	index, err := f.NewSheet(hcpSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range HcpExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(hcpSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(hcpSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{
		15, // NPI
		18, // First Name
		18, // Last Name
		22, // Specialty
		12, // Status
		40, // Aliases
		20, // Created At
	}
	for i := range HcpExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(hcpSheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, hcp := range hcps {
		row := rowIdx + 2 // 从第2行开始（第1行是表头）
		aliases := make([]string, 0, len(hcp.Aliases))
		for _, a := range hcp.Aliases {
			aliases = append(aliases, a.Alias)
		}
		values := []any{
			hcp.NPI,
			hcp.FirstName,
			hcp.LastName,
			hcp.Specialty,
			hcp.Status,
			strings.Join(aliases, " | "),
			hcp.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(hcpSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, colIdx+1, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(hcpSheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// HcpImportRow 导入文件中的一行专家数据
type HcpImportRow struct {
	NPI       string
	FirstName string
	LastName  string
	Specialty string
	Aliases   []string
}

// ParseHcpImport 解析导入 Excel 文件
// 第1行是表头；NPI 和 Last Name 为必填，缺失的行按行号报错
func ParseHcpImport(r io.Reader) ([]HcpImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("excel file has no data rows")
	}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	result := make([]HcpImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		item := HcpImportRow{
			NPI:       cell(row, 0),
			FirstName: cell(row, 1),
			LastName:  cell(row, 2),
			Specialty: cell(row, 3),
		}
		// 跳过整行空白
		if item.NPI == "" && item.FirstName == "" && item.LastName == "" {
			continue
		}
		if item.NPI == "" || item.LastName == "" {
			return nil, fmt.Errorf("row %d: npi and last name are required", i+2)
		}
		for _, a := range strings.Split(cell(row, 4), "|") {
			if trimmed := strings.TrimSpace(a); trimmed != "" {
				item.Aliases = append(item.Aliases, trimmed)
			}
		}
		result = append(result, item)
	}
	return result, nil
}
