// Package export renders marketplace comparisons as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/mktcalc/internal/format"
	"github.com/Simplici0/mktcalc/internal/pricing"
)

// SheetName is the worksheet holding the comparison.
const SheetName = "Comparativo"

const headerRow = 6

var columns = []string{
	"Marketplace",
	"Receita",
	"Comissão",
	"Taxa fixa",
	"Frete",
	"Antecipação",
	"Marketing",
	"Taxas totais",
	"Valor líquido",
	"Custo total",
	"Lucro",
	"Margem %",
	"ROI %",
	"Markup",
	"Meta",
	"Melhor",
}

// WriteXLSX writes one row per entry, in order, below a short summary of
// inputs. The most profitable entry is flagged in the last column.
func WriteXLSX(w io.Writer, inputs pricing.GlobalInputs, entries []pricing.Entry, now time.Time) error {
	inputs = pricing.SanitizeInputs(inputs)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	summary := [][]any{
		{"Produto", inputs.ProductName},
		{"Preço de venda", format.Round2(inputs.SellingPrice)},
		{"Quantidade", inputs.Quantity},
		{"Gerado em", now.Format("02/01/2006 15:04")},
	}
	for i, row := range summary {
		if err := setRow(f, 1, i+1, row); err != nil {
			return err
		}
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, 1, headerRow, header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(columns), headerRow)
	if err != nil {
		return fmt.Errorf("resolve header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", headerRow), last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	best := -1
	if i, err := pricing.BestIndex(entries); err == nil {
		best = i
	}

	for i, e := range entries {
		r, b := e.Result, e.Result.Breakdown
		flag := ""
		if i == best {
			flag = "★"
		}
		row := []any{
			e.Marketplace.Name,
			format.Round2(b.Revenue),
			format.Round2(b.Commission),
			format.Round2(b.FixedFee),
			format.Round2(b.Shipping),
			format.Round2(b.Anticipation),
			format.Round2(b.Marketing),
			format.Round2(r.TotalMarketplaceFees),
			format.Round2(r.NetReceivable),
			format.Round2(r.TotalCost),
			format.Round2(r.RealProfit),
			format.Round2(r.ProfitMargin),
			format.Round2(r.ROI),
			format.Round2(r.Markup),
			string(r.Goal),
			flag,
		}
		if err := setRow(f, 1, headerRow+1+i, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, col, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
