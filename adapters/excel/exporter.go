package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"testworth/domain/decision"
	"testworth/internal/errors"
)

// AnalysisWorkbook is the full result set exported to a spreadsheet
type AnalysisWorkbook struct {
	Business  decision.BusinessInputs
	Threshold float64
	EVPI      *decision.EVPIResult
	EVSI      *decision.EVSIResult
	NetValue  *decision.NetValueResult
}

// Exporter writes analysis workbooks
type Exporter struct{}

// NewExporter creates an excel exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Write saves the analysis as an xlsx workbook at path
func (e *Exporter) Write(path string, wb AnalysisWorkbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Inputs"); err != nil {
		return errors.Wrap(err, "failed to prepare workbook")
	}
	e.writeInputs(f, wb)

	if wb.EVPI != nil {
		if _, err := f.NewSheet("EVPI"); err != nil {
			return errors.Wrap(err, "failed to add EVPI sheet")
		}
		e.writePairs(f, "EVPI", [][2]interface{}{
			{"EVPI ($)", wb.EVPI.Dollars},
			{"Default decision", string(wb.EVPI.DefaultAction)},
			{"Truncation significant", wb.EVPI.TruncationSignificant},
		})
	}

	if wb.EVSI != nil {
		if _, err := f.NewSheet("EVSI"); err != nil {
			return errors.Wrap(err, "failed to add EVSI sheet")
		}
		e.writePairs(f, "EVSI", [][2]interface{}{
			{"EVSI ($)", wb.EVSI.Dollars},
			{"EVPI ($)", wb.EVSI.EVPIDollars},
			{"Method", wb.EVSI.Method},
			{"Samples", wb.EVSI.Samples},
			{"Overturn probability", wb.EVSI.OverturnProbability},
			{"Default decision", string(wb.EVSI.DefaultAction)},
			{"Truncation significant", wb.EVSI.TruncationSignificant},
		})
	}

	if wb.NetValue != nil {
		if _, err := f.NewSheet("Net Value"); err != nil {
			return errors.Wrap(err, "failed to add Net Value sheet")
		}
		e.writePairs(f, "Net Value", [][2]interface{}{
			{"Net value ($)", wb.NetValue.Dollars},
			{"Verdict", string(wb.NetValue.Verdict)},
			{"Gross value delta ($)", wb.NetValue.GrossValueDollars},
			{"Direct cost ($)", wb.NetValue.DirectCostDollars},
			{"Delay cost ($)", wb.NetValue.DelayCostDollars},
			{"Overturn probability", wb.NetValue.OverturnProbability},
			{"Samples", wb.NetValue.Samples},
		})
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook to %s", path)
	}
	return nil
}

func (e *Exporter) writeInputs(f *excelize.File, wb AnalysisWorkbook) {
	e.writePairs(f, "Inputs", [][2]interface{}{
		{"Baseline conversion rate", wb.Business.BaselineRate},
		{"Annual traffic", wb.Business.AnnualTraffic},
		{"Value per conversion ($)", wb.Business.ValuePerConversion},
		{"Value per unit lift K ($)", wb.Business.LiftValue()},
		{"Lift threshold", wb.Threshold},
	})
}

func (e *Exporter) writePairs(f *excelize.File, sheet string, pairs [][2]interface{}) {
	for i, pair := range pairs {
		row := i + 1
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pair[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pair[1])
	}
}
