package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

func writeExcelize(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	rowNo := 1
	writeRow := func(cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		values := make([]any, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
		rowNo++
		return nil
	}

	if header != nil {
		if err := writeRow(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving xlsx: %w", err)
	}
	return nil
}
