// Package report holds the fixed tables behind each dashboard tab. Values are
// placeholders; the tables exist so every tab has something to export.
package report

import (
	"strings"
	"time"

	"github.com/xxxsen/clinicbill/internal/model"
	"github.com/xxxsen/clinicbill/internal/pkg/timeutil"
)

const (
	DatasetOverview = "overview"
	DatasetAging    = "aging"
	DatasetDenials  = "denials"
	DatasetPayers   = "payers"
)

var Datasets = []string{DatasetOverview, DatasetAging, DatasetDenials, DatasetPayers}

// Resolve maps a tab name to its dataset. Unknown names use the overview.
func Resolve(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, item := range Datasets {
		if item == name {
			return item
		}
	}
	return DatasetOverview
}

func Build(name string, filters model.ViewFilters, now time.Time) model.ExportData {
	switch Resolve(name) {
	case DatasetAging:
		return Aging(now)
	case DatasetDenials:
		return Denials(now)
	case DatasetPayers:
		return Payers(now)
	default:
		return KPIs(filters, now)
	}
}

func KPIs(filters model.ViewFilters, now time.Time) model.ExportData {
	period := filters.Period
	if period == "" {
		period = "month"
	}
	return model.ExportData{
		Headers: []string{"KPI", "Valor", "Variação (%)", "Meta", "% da Meta"},
		Rows: [][]interface{}{
			{"Receita Mensal", FormatCurrency(487500), "8.3", FormatCurrency(500000), "97.5"},
			{"Despesas", FormatCurrency(312400), "-2.1", FormatCurrency(300000), "104.1"},
			{"Lucro Líquido", FormatCurrency(175100), "12.5", FormatCurrency(180000), "97.3"},
			{"Dias em A/R", "38 dias", "-5.0", "35 dias", "108.6"},
			{"Taxa de Negação", "8.2%", "-1.2", "6%", "136.7"},
			{"Clean Claim Rate", "89.5%", "3.2", "95%", "94.2"},
			{"Net Collection Rate", "94.8%", "1.5", "98%", "96.7"},
		},
		Filename: "KPIs_" + period + "_" + timeutil.DateStamp(now),
	}
}

func Aging(now time.Time) model.ExportData {
	return model.ExportData{
		Headers: []string{"Faixa", "Valor", "Quantidade", "Percentual"},
		Rows: [][]interface{}{
			{"0-30 dias", FormatCurrency(145000), 425, "42%"},
			{"31-60 dias", FormatCurrency(98000), 285, "28%"},
			{"61-90 dias", FormatCurrency(56000), 168, "16%"},
			{"91-120 dias", FormatCurrency(32000), 95, "9%"},
			{"120+ dias", FormatCurrency(15000), 48, "5%"},
		},
		Filename: "Aging_AR_" + timeutil.DateStamp(now),
	}
}

func Denials(now time.Time) model.ExportData {
	return model.ExportData{
		Headers: []string{"Motivo", "Quantidade", "Valor", "Percentual"},
		Rows: [][]interface{}{
			{"Informação Incompleta", 245, FormatCurrency(18500), "25%"},
			{"Código Incorreto", 186, FormatCurrency(14200), "19%"},
			{"Autorização Ausente", 167, FormatCurrency(12800), "17%"},
			{"Duplicata", 142, FormatCurrency(10900), "14%"},
			{"Fora do Prazo", 128, FormatCurrency(9800), "13%"},
			{"Outros", 118, FormatCurrency(9000), "12%"},
		},
		Filename: "Negacoes_" + timeutil.DateStamp(now),
	}
}

func Payers(now time.Time) model.ExportData {
	return model.ExportData{
		Headers: []string{"Pagador", "Receita", "Quantidade", "Percentual", "Dias A/R", "Collection Rate", "Taxa Negação"},
		Rows: [][]interface{}{
			{"Unimed", FormatCurrency(125000), 3240, "25.6%", 35, "96.5%", "8.8%"},
			{"Amil", FormatCurrency(98000), 2580, "20.1%", 42, "94.2%", "7.7%"},
			{"Bradesco Saúde", FormatCurrency(87000), 2145, "17.8%", 38, "95.1%", "8.2%"},
			{"SulAmérica", FormatCurrency(72000), 1890, "14.8%", 40, "93.8%", "7.5%"},
			{"NotreDame", FormatCurrency(58500), 1650, "12.0%", 45, "92.5%", "7.5%"},
			{"Particular", FormatCurrency(47000), 1420, "9.6%", 25, "98.2%", "4.4%"},
		},
		Filename: "Pagadores_" + timeutil.DateStamp(now),
	}
}
