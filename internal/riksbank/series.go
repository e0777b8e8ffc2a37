package riksbank

// ForecastSeries binds a stable route slug to a Riksbank series identifier.
type ForecastSeries struct {
	Slug        string `json:"slug"`
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ForecastCatalogue lists the thematic forecast series exposed as presets.
// The slugs are part of the public API surface; the ids are Riksbank series
// identifiers and opaque to the rest of the code.
var ForecastCatalogue = []ForecastSeries{
	{"gdp", "SEQGDPNAYCA", "GDP, calendar-adjusted y/y growth"},
	{"gdp-yoy-sa", "SEQGDPNAYSA", "GDP, seasonally adjusted y/y growth"},
	{"gdp-yoy-na", "SEQGDPNAYNA", "GDP, non-adjusted y/y growth"},
	{"gdp-level-saca", "SEQGDPNAASA", "GDP level, seasonally and calendar adjusted"},
	{"gdp-level-ca", "SEQGDPNAACA", "GDP level, calendar adjusted"},
	{"gdp-level-na", "SEQGDPNAANA", "GDP level, non-adjusted"},
	{"gdp-gap", "SEQGDPGAPYSA", "GDP gap, percent of potential GDP"},
	{"cpi", "SEMCPINAYNA", "CPI, y/y inflation"},
	{"cpi-index", "SEMCPINAANA", "CPI index level"},
	{"cpif", "SEMCPIFNAYNA", "CPIF, y/y inflation (operational target)"},
	{"cpif-ex-energy", "SEMCPIFFEXYNA", "CPIF excluding energy, y/y inflation"},
	{"cpif-ex-energy-index", "SEMCPIFFEXANA", "CPIF excluding energy, index level"},
	{"unemployment", "SEQLABUEASA", "Unemployment rate, seasonally adjusted LFS"},
	{"employed-persons", "SEQLABEPASA", "Employed persons, seasonally adjusted LFS"},
	{"labour-force", "SEQLABLFASA", "Labour force, seasonally adjusted LFS"},
	{"hourly-labour-cost", "SEACOMNAYCA", "Hourly labour cost, y/y change"},
	{"hourly-wage-na", "SEAWAGNAYCA", "Hourly wage, National Accounts, y/y change"},
	{"hourly-wage-nmo", "SEAWAGKLYNA", "Hourly wage, National Mediation Office, y/y change"},
	{"population", "SEPOPYRCA", "Population growth, y/y change"},
	{"population-level", "SEQPOPNAANA", "Population level, thousands of persons"},
	{"policy-rate", "SEQRATENAYNA", "Policy rate, quarterly mean"},
	{"government-net-lending", "SEAPBSNAYNA", "General government net lending, percent of GDP"},
	{"kix", "SEQKIXNAANA", "Nominal exchange rate, KIX index"},
}

// ForecastSeriesBySlug looks up a preset series by its route slug.
func ForecastSeriesBySlug(slug string) (ForecastSeries, bool) {
	for _, s := range ForecastCatalogue {
		if s.Slug == slug {
			return s, true
		}
	}
	return ForecastSeries{}, false
}
