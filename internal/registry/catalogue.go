package registry

import "MacroSentinel/internal/model"

// Default returns the compiled-in indicator catalogue. Fallback values are
// the last known readings and are served when a live fetch fails.
func Default() []model.IndicatorDefinition {
	return []model.IndicatorDefinition{
		{
			Key: "JPY_USD", Name: "USD/JPY Exchange Rate", Description: "Carry Trade Unwinding", Frequency: "Daily",
			Fallback: 153.5,
			// Thresholds descend but are compared as ascending, so any rate at
			// or above 130 is critical. Kept as published.
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 140, Fear: 130, Crisis: 120},
			Source:     model.Source{Provider: model.ProviderFXDaily, Symbol: "USD", Quote: "JPY"},
		},
		{
			Key: "US_TY_10Y", Name: "US 10Y Treasury", Description: "Bond Market Stress", Frequency: "Daily",
			Fallback:   4.35,
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 5, Fear: 5.5, Crisis: 6},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "DGS10"},
		},
		{
			Key: "HIGH_YIELD_SPREAD", Name: "High Yield Spread", Description: "Credit Risk", Frequency: "Weekly",
			Fallback:   2.86,
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 4, Fear: 6, Crisis: 8},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "BAMLH0A0HYM2"},
		},
		{
			Key: "KRE", Name: "Regional Banks (KRE)", Description: "Banking Stability", Frequency: "Daily",
			Fallback: 45.2,
			Kind:     model.KindPercentDrop,
			Baseline: 56.5,
			Source:   model.Source{Provider: model.ProviderGlobalQuote, Symbol: "KRE"},
		},
		{
			Key: "CHINA_PMI", Name: "China Manufacturing PMI", Description: "Global Demand", Frequency: "Monthly",
			Fallback:   48.5,
			Kind:       model.KindInverted,
			Thresholds: model.Thresholds{Caution: 45, Fear: 40, Crisis: 35},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "CHPMINDMANPMI"},
		},
		{
			Key: "VIX", Name: "VIX", Description: "Market Fear", Frequency: "Daily",
			Fallback:   18.6,
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 25, Fear: 35, Crisis: 50},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "VIXCLS"},
		},
		{
			Key: "UNEMPLOYMENT", Name: "US Unemployment", Description: "Labor Market", Frequency: "Monthly",
			Fallback:   4.4,
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 5, Fear: 6, Crisis: 7},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "UNRATE"},
		},
		{
			Key: "CRE_DELINQUENCY", Name: "CRE Delinquency", Description: "Commercial Property Stress", Frequency: "Quarterly",
			Fallback:   1.57,
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 3, Fear: 7.29, Crisis: 10},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "DRCCLACBS"},
		},
		{
			Key: "FED_FUNDS", Name: "Fed Funds Rate", Description: "Monetary Policy", Frequency: "Meeting",
			Fallback: 3.63,
			// Same descending-threshold quirk as JPY_USD.
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 2, Fear: 1, Crisis: 0},
			Source:     model.Source{Provider: model.ProviderFRED, Series: "FEDFUNDS"},
		},
		{
			Key: "BUF_FITZ", Name: "Buffett Indicator", Description: "Market Valuation", Frequency: "Quarterly",
			Fallback:   221,
			Kind:       model.KindAscending,
			Thresholds: model.Thresholds{Caution: 150, Fear: 200, Crisis: 250},
			// NCBEILQ027S is reported in millions, GDP in billions.
			Source: model.Source{Provider: model.ProviderRatio, Series: "NCBEILQ027S", Divisor: "GDP", NumScale: 0.001},
		},
	}
}
