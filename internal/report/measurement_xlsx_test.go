package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gruas-backend/internal/model"
)

func TestBuildMeasurementXLSX(t *testing.T) {
	approved := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	measurements := []model.Measurement{
		{
			Number:            "MED-202603-001",
			Rental:            &model.Rental{ContractNo: "LOC-2026-0001"},
			Period:            "2026-03",
			BaseAmount:        decimal.NewFromInt(25000),
			ComplementsAmount: decimal.RequireFromString("590.00"),
			TotalAmount:       decimal.RequireFromString("25590.00"),
			Status:            model.MeasurementApproved,
			ApprovedAt:        &approved,
		},
		{
			Number:     "MED-202604-001",
			Period:     "2026-04",
			BaseAmount: decimal.NewFromInt(25000),
			Status:     model.MeasurementPending,
		},
	}

	data, err := BuildMeasurementXLSX(measurements)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	require.Equal(t, []string{"Medições"}, f.GetSheetList())

	number, err := f.GetCellValue("Medições", "A2")
	require.NoError(t, err)
	assert.Equal(t, "MED-202603-001", number)

	contract, err := f.GetCellValue("Medições", "B2")
	require.NoError(t, err)
	assert.Equal(t, "LOC-2026-0001", contract)

	status, err := f.GetCellValue("Medições", "G2")
	require.NoError(t, err)
	assert.Equal(t, "approved", status)

	approvedCell, err := f.GetCellValue("Medições", "H2")
	require.NoError(t, err)
	assert.Equal(t, "05/04/2026", approvedCell)

	// missing rental leaves the contract column empty
	contract2, err := f.GetCellValue("Medições", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", contract2)
}

func TestBuildMeasurementXLSXEmpty(t *testing.T) {
	data, err := BuildMeasurementXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	header, err := f.GetCellValue("Medições", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Número", header)
}
