package services

import (
	"context"
	"fmt"

	"assetmanager/src/models"
	"assetmanager/src/repositories"
	"assetmanager/src/schemas"
	"assetmanager/src/utils"

	"github.com/xuri/excelize/v2"
)

const (
	assetsSheet  = "Assets"
	summarySheet = "Summary"

	summaryByTypeFirstRow = 9
)

// Assets sheet columns holding amounts in the asset's currency.
var assetMoneyColumns = []int{5, 6, 8, 9, 10}

var assetsHeader = []interface{}{
	"Name", "Type", "Symbol", "Quantity", "Cost Basis", "Current Price", "Currency",
	"Total Value", "Total Cost", "Gain/Loss", "Gain/Loss %",
}

type SummaryComputer interface {
	ComputeSummary(ctx context.Context, userID int, displayCurrency string) (*schemas.PortfolioSummary, error)
}

// ExportService renders a user's portfolio as an XLSX workbook.
type ExportService struct {
	assets    repositories.AssetRepository
	portfolio SummaryComputer
}

func NewExportService(assets repositories.AssetRepository, portfolio SummaryComputer) *ExportService {
	return &ExportService{assets: assets, portfolio: portfolio}
}

func (s *ExportService) listAll(ctx context.Context, userID int) ([]models.Asset, error) {
	var all []models.Asset
	for offset := 0; ; offset += utils.MaxPageSize {
		page, total, err := s.assets.List(ctx, repositories.AssetFilter{
			UserID: userID,
			SortBy: repositories.SortByName,
			Limit:  utils.MaxPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("listing assets for export: %w", err)
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

// moneyStyles creates one number format style per currency on first use.
type moneyStyles struct {
	f      *excelize.File
	styles map[string]int
}

func newMoneyStyles(f *excelize.File) *moneyStyles {
	return &moneyStyles{f: f, styles: map[string]int{}}
}

func (m *moneyStyles) get(currency string) (int, error) {
	currency = utils.NormalizeCurrency(currency)
	if id, ok := m.styles[currency]; ok {
		return id, nil
	}
	numFmt := utils.MoneyNumFmt(currency)
	id, err := m.f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return 0, err
	}
	m.styles[currency] = id
	return id, nil
}

func (m *moneyStyles) apply(sheet, currency string, row int, columns ...int) error {
	style, err := m.get(currency)
	if err != nil {
		return err
	}
	for _, col := range columns {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := m.f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func assetSymbol(a *models.Asset) string {
	switch {
	case a.CryptoDetails != nil:
		return a.CryptoDetails.Symbol
	case a.StockDetails != nil:
		return a.StockDetails.Symbol
	}
	return ""
}

// BuildWorkbook writes one row per asset in its own currency to the Assets sheet and the
// portfolio summary in displayCurrency to the Summary sheet.
func (s *ExportService) BuildWorkbook(ctx context.Context, userID int, displayCurrency string) (*excelize.File, error) {
	summary, err := s.portfolio.ComputeSummary(ctx, userID, displayCurrency)
	if err != nil {
		return nil, err
	}
	assets, err := s.listAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	money := newMoneyStyles(f)
	if err := f.SetSheetName("Sheet1", assetsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(assetsSheet, "A1", &assetsHeader); err != nil {
		return nil, err
	}
	for i := range assets {
		a := &assets[i]
		response := toAssetResponse(a)
		row := []interface{}{
			a.Name,
			string(a.Type),
			assetSymbol(a),
			a.Quantity.InexactFloat64(),
			a.CostBasis.InexactFloat64(),
			a.CurrentPrice.InexactFloat64(),
			a.Currency,
			response.TotalValue.InexactFloat64(),
			response.TotalCost.InexactFloat64(),
			response.GainLoss.InexactFloat64(),
			response.GainLossPercent.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(assetsSheet, cell, &row); err != nil {
			return nil, err
		}
		if err := money.apply(assetsSheet, a.Currency, i+2, assetMoneyColumns...); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, money, summary); err != nil {
		return nil, err
	}
	if err := styleHeaders(f, len(assetsHeader)); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummarySheet(f *excelize.File, money *moneyStyles, summary *schemas.PortfolioSummary) error {
	currency := summary.DisplayCurrency
	rows := [][]interface{}{
		{"Display Currency", currency},
		{"Total Value", summary.TotalValue.InexactFloat64()},
		{"Total Cost", summary.TotalCost.InexactFloat64()},
		{"Total Gain/Loss", summary.TotalGainLoss.InexactFloat64()},
		{"Total Gain/Loss %", summary.TotalGainLossPercent.InexactFloat64()},
		{"Asset Count", summary.AssetCount},
		{""},
		{"Type", "Value", "Cost", "Gain/Loss", "Gain/Loss %", "Allocation %", "Count"},
	}
	for _, b := range summary.ByType {
		rows = append(rows, []interface{}{
			string(b.Type),
			b.Value.InexactFloat64(),
			b.Cost.InexactFloat64(),
			b.GainLoss.InexactFloat64(),
			b.GainLossPercent.InexactFloat64(),
			b.AllocationPercent.InexactFloat64(),
			b.Count,
		})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}

	for row := 2; row <= 4; row++ {
		if err := money.apply(summarySheet, currency, row, 2); err != nil {
			return err
		}
	}
	for i := range summary.ByType {
		if err := money.apply(summarySheet, currency, summaryByTypeFirstRow+i, 2, 3, 4); err != nil {
			return err
		}
	}
	return nil
}

func styleHeaders(f *excelize.File, assetColumns int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	lastColumn, err := excelize.ColumnNumberToName(assetColumns)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(assetsSheet, "A1", lastColumn+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(assetsSheet, "A", lastColumn, 15); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A8", "G8", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "G", 18)
}
