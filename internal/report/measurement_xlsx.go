package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"gruas-backend/internal/model"
)

const measurementSheet = "Medições"

// BuildMeasurementXLSX writes measurements into a spreadsheet and returns the
// file bytes. Rows are written in the order given.
func BuildMeasurementXLSX(measurements []model.Measurement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", measurementSheet); err != nil {
		return nil, err
	}

	headers := []string{"Número", "Contrato", "Período", "Valor Base", "Complementos", "Total", "Status", "Aprovado em"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(measurementSheet, cell, h); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDDDDD"}},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(measurementSheet, "A1", "H1", headerStyle); err != nil {
		return nil, err
	}

	for i, m := range measurements {
		row := i + 2
		contractNo := ""
		if m.Rental != nil {
			contractNo = m.Rental.ContractNo
		}
		approvedAt := ""
		if m.ApprovedAt != nil {
			approvedAt = m.ApprovedAt.Format("02/01/2006")
		}

		values := []interface{}{
			m.Number,
			contractNo,
			m.Period,
			m.BaseAmount.InexactFloat64(),
			m.ComplementsAmount.InexactFloat64(),
			m.TotalAmount.InexactFloat64(),
			m.Status,
			approvedAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(measurementSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(measurementSheet, "A", "H", 18); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
