package report

import "github.com/xxxsen/clinicbill/internal/model"

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FilterCatalog struct {
	Periods       []Option `json:"periods"`
	Units         []Option `json:"units"`
	Professionals []Option `json:"professionals"`
	Payers        []Option `json:"payers"`
	Profiles      []Option `json:"profiles"`
}

var ProfileLabels = map[model.Profile]string{
	model.ProfileFinancial: "Financeiro",
	model.ProfileBiller:    "Faturista",
	model.ProfileManager:   "Gestor",
	model.ProfileCustom:    "Personalizado",
}

// Catalog lists the selectable values of every filter dimension.
func Catalog() FilterCatalog {
	profiles := make([]Option, 0, len(model.Profiles))
	for _, p := range model.Profiles {
		profiles = append(profiles, Option{Value: string(p), Label: ProfileLabels[p]})
	}
	return FilterCatalog{
		Periods: []Option{
			{Value: "day", Label: "Hoje"},
			{Value: "week", Label: "Esta Semana"},
			{Value: "month", Label: "Este Mês"},
			{Value: "quarter", Label: "Este Trimestre"},
			{Value: "year", Label: "Este Ano"},
			{Value: "custom", Label: "Personalizado"},
		},
		Units: []Option{
			{Value: model.FilterAll, Label: "Todas as Unidades"},
			{Value: "unit1", Label: "Unidade Centro"},
			{Value: "unit2", Label: "Unidade Sul"},
			{Value: "unit3", Label: "Unidade Norte"},
		},
		Professionals: []Option{
			{Value: model.FilterAll, Label: "Todos Profissionais"},
			{Value: "dr1", Label: "Dr. Silva"},
			{Value: "dr2", Label: "Dra. Santos"},
			{Value: "dr3", Label: "Dr. Oliveira"},
		},
		Payers: []Option{
			{Value: model.FilterAll, Label: "Todos Pagadores"},
			{Value: "unimed", Label: "Unimed"},
			{Value: "amil", Label: "Amil"},
			{Value: "bradesco", Label: "Bradesco Saúde"},
			{Value: "particular", Label: "Particular"},
		},
		Profiles: profiles,
	}
}
