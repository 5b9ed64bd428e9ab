package config

import "github.com/iwvelando/peso-dashboard/pkg/constants"

// DefaultData describes the eight bundled datasets.
func DefaultData() DataConfig {
	dayFirstDotted := "02.01.2006"

	return DataConfig{
		Dir: ".",
		Primary: PrimaryTable{
			Table: Table{
				File:         "USD_COP.csv",
				Delimiter:    ",",
				DateColumn:   "Date",
				DateLayout:   dayFirstDotted,
				NumberLocale: constants.NumberLocaleDecimalComma,
			},
			ValueColumn: "Ultimo",
		},
		Events: EventsTable{
			File:              "hystorical_events.csv",
			Delimiter:         ",",
			DateColumn:        "Date",
			DateLayout:        dayFirstDotted,
			DescriptionColumn: "Event",
		},
		Auxiliary: []AuxiliaryTable{
			{
				Table: Table{File: "Fed_interest_rate.csv", Delimiter: ",", DateColumn: "Date", DateLayout: dayFirstDotted, NumberLocale: constants.NumberLocaleStandard},
				Series: []SeriesConfig{
					{ID: "fed_rate", Column: "Interest", Label: "Tasa Interés FED", Unit: "%", Axis: "y2", Color: "#34eb5b"},
				},
			},
			{
				Table: Table{File: "Inflation.csv", Delimiter: ",", DateColumn: "Date", DateLayout: dayFirstDotted, NumberLocale: constants.NumberLocaleStandard},
				Series: []SeriesConfig{
					{ID: "usa_cpi", Column: "Inflation", Label: "USA IPC", Unit: "%", Axis: "y2", Color: "#34eb5b"},
				},
			},
			{
				Table: Table{File: "Oil.csv", Delimiter: ",", DateColumn: "Date", DateLayout: constants.MixedDateLayout, NumberLocale: constants.NumberLocaleStandard},
				Series: []SeriesConfig{
					{ID: "wti_oil", Column: "WTI", Label: "WTI oil", Unit: "USD", Axis: "y3", Color: "#fcba03"},
				},
			},
			{
				Table: Table{File: "Fertilizantes.csv", Delimiter: ";", DateColumn: "Date", DateLayout: constants.MixedDateLayout, NumberLocale: constants.NumberLocaleStandard},
				Series: []SeriesConfig{
					{ID: "urea", Column: "Urea-Bulto-40-Kg", Label: "Urea", Unit: "COP", Axis: "y4", Color: "#fc0384", Scaled: true},
					{ID: "kcl", Column: "KCL-Bulto-50-Kg", Label: "KCL", Unit: "COP", Axis: "y4", Color: "#b103fc", Scaled: true},
					{ID: "dap", Column: "Fosfato-Diamonico-Bulto-50Kg", Label: "Fosfato Diamónico", Unit: "COP", Axis: "y4", Color: "#7b03fc", Scaled: true},
				},
			},
			{
				Table: Table{File: "IPC-Colombia.csv", Delimiter: ";", DateColumn: "Date", DateLayout: constants.MixedDateLayout, NumberLocale: constants.NumberLocaleStandard},
				Series: []SeriesConfig{
					{ID: "ipc_colombia", Column: "Variacion-ano-corrido", Label: "IPC Colombia", Unit: "%", Axis: "y2", Color: "#07fab9"},
				},
			},
			{
				Table: Table{File: "Tasa-interes-Banrep.csv", Delimiter: ",", DateColumn: "Date", DateLayout: "02/01/2006", NumberLocale: constants.NumberLocaleStandard},
				Series: []SeriesConfig{
					{ID: "banrep_rate", Column: "Tasa", Label: "Tasa Interés Banrep", Unit: "%", Axis: "y2", Color: "#f22c8f"},
				},
			},
		},
	}
}
