package model

// Profile tags a saved view with the audience it was built for. It has no
// behavioral effect.
type Profile string

const (
	ProfileFinancial Profile = "financeiro"
	ProfileBiller    Profile = "faturista"
	ProfileManager   Profile = "gestor"
	ProfileCustom    Profile = "custom"
)

var Profiles = []Profile{ProfileFinancial, ProfileBiller, ProfileManager, ProfileCustom}

func (p Profile) Valid() bool {
	for _, item := range Profiles {
		if p == item {
			return true
		}
	}
	return false
}

const FilterAll = "all"

var Periods = []string{"day", "week", "month", "quarter", "year", "custom"}

type ViewFilters struct {
	Period       string `json:"period" validate:"oneof=day week month quarter year custom"`
	Unit         string `json:"unit" validate:"required"`
	Professional string `json:"professional" validate:"required"`
	Payer        string `json:"payer" validate:"required"`
}

// SavedView is immutable once stored; there is no update path.
type SavedView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Profile   Profile     `json:"profile"`
	Filters   ViewFilters `json:"filters"`
	CreatedAt string      `json:"createdAt"`
}
