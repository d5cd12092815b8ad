package load

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Листы книги сводки
const (
	SummarySheet = "Summary"
	FlowsSheet   = "Flows"
)

// SummaryLoader выгружает сводку и отображаемые потоки в книгу Excel
type SummaryLoader struct{}

// NewSummaryLoader создает новый экземпляр SummaryLoader
func NewSummaryLoader() *SummaryLoader {
	return &SummaryLoader{}
}

// ContentType возвращает MIME-тип XLSX
func (l *SummaryLoader) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write записывает книгу в поток
func (l *SummaryLoader) Write(w io.Writer, payload *RenderPayload) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("ошибка переименования листа: %w", err)
	}
	if err := writeSummarySheet(f, payload.Summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(FlowsSheet); err != nil {
		return fmt.Errorf("ошибка создания листа %s: %w", FlowsSheet, err)
	}
	if err := writeFlowsSheet(f, payload); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("ошибка записи книги: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary Summary) error {
	rows := [][]interface{}{
		{"Total flows", summary.TotalFlows},
		{"Total value", summary.TotalValue},
		{"Average value", summary.AverageValue},
		{},
		{"Rank", "Origin", "Destination", "Value"},
	}
	for _, r := range summary.Ranking {
		rows = append(rows, []interface{}{r.Rank, r.Origin, r.Destination, r.Value})
	}
	return setRows(f, SummarySheet, rows)
}

func writeFlowsSheet(f *excelize.File, payload *RenderPayload) error {
	rows := [][]interface{}{
		{"refArea", "counterpartArea", "rowIi", "rowIi_name", "colIi", "colIi_name", "obsValue", "pair_total", "arc_width"},
	}
	for _, d := range payload.Arcs.Data {
		rows = append(rows, []interface{}{
			d.OriginArea, d.DestinationArea,
			d.RowSector, deref(d.RowSectorName),
			d.ColSector, deref(d.ColSectorName),
			d.Value, d.PairTotal, d.ArcWidth,
		})
	}
	return setRows(f, FlowsSheet, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("ошибка записи строки %d листа %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
