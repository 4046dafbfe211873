package report

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders reais with pt-BR grouping, e.g. "R$ 487.500,00".
func FormatCurrency(value float64) string {
	return ptBR.Sprintf("R$ %.2f", value)
}

// FormatDate renders a day as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
