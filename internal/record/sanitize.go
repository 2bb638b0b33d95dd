package record

import (
	"fmt"
	"strings"

	"github.com/amiseo/cockpit/internal/models"
)

func trim(s string) string { return strings.TrimSpace(s) }

// trimList trims every entry and drops the blanks. The result may be
// empty; display code re-pads, persisted data does not.
func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := trim(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func anyEcommerceValue(s models.EcommerceSnapshot) bool {
	return s.Revenue != "" || s.ConversionRate != "" || s.ReturningCustomers != "" ||
		s.TopProduct != "" || s.AvgOrderValue != "" || s.CartAbandonment != ""
}

func anyAdsValue(s models.AdsSnapshot) bool {
	return s.Spend != "" || s.ROAS != "" || s.CPA != "" ||
		s.Impressions != "" || s.CTR != "" || s.BestChannel != ""
}

func trimEcommerce(s models.EcommerceSnapshot) models.EcommerceSnapshot {
	return models.EcommerceSnapshot{
		Revenue:            trim(s.Revenue),
		ConversionRate:     trim(s.ConversionRate),
		ReturningCustomers: trim(s.ReturningCustomers),
		TopProduct:         trim(s.TopProduct),
		AvgOrderValue:      trim(s.AvgOrderValue),
		CartAbandonment:    trim(s.CartAbandonment),
	}
}

func trimAds(s models.AdsSnapshot) models.AdsSnapshot {
	return models.AdsSnapshot{
		Spend:       trim(s.Spend),
		ROAS:        trim(s.ROAS),
		CPA:         trim(s.CPA),
		Impressions: trim(s.Impressions),
		CTR:         trim(s.CTR),
		BestChannel: trim(s.BestChannel),
	}
}

func sanitizeKPIPeriods(in []models.KPIPeriod, fallbackID string) []models.KPIPeriod {
	out := make([]models.KPIPeriod, 0, len(in))
	for i, period := range in {
		kpis := make([]models.KPI, 0, len(period.KPIs))
		for _, kpi := range period.KPIs {
			k := models.KPI{Label: trim(kpi.Label), Value: trim(kpi.Value), Helper: trim(kpi.Helper)}
			if k.Label == "" || k.Value == "" {
				continue
			}
			kpis = append(kpis, k)
		}

		label := trim(period.Label)
		if label == "" && len(kpis) == 0 {
			continue
		}
		if label == "" {
			label = fmt.Sprintf("Période %d", i+1)
		}
		id := trim(period.ID)
		if id == "" {
			id = fmt.Sprintf("periode-%d", i+1)
		}

		out = append(out, models.KPIPeriod{
			ID:                id,
			Label:             label,
			KPIs:              kpis,
			MonthlyHighlights: padded(trimList(period.MonthlyHighlights)),
			ThisMonthActions:  padded(trimList(period.ThisMonthActions)),
			NextMonthActions:  padded(trimList(period.NextMonthActions)),
		})
	}

	if len(out) == 0 {
		id := trim(fallbackID)
		if id == "" {
			id = "periode-1"
		}
		out = append(out, models.KPIPeriod{
			ID:                id,
			Label:             CurrentPeriodLabel,
			KPIs:              []models.KPI{},
			MonthlyHighlights: []string{""},
			ThisMonthActions:  []string{""},
			NextMonthActions:  []string{""},
		})
	}
	return out
}

// Sanitize turns a submitted draft into a clean persistable record. KPIs
// without both label and value are dropped, as are initiatives without
// both title and details. Ecommerce and ads data survive only when their
// toggle is on; when off the fields are absent entirely, since absence
// is what hides the section from the client. Callers that persist must
// overwrite the returned id with the trusted route-derived one.
func Sanitize(draft models.DraftRecord, fallbackID string) models.ClientRecord {
	periods := sanitizeKPIPeriods(draft.KPIPeriods, fallbackID)
	first := periods[0]

	initiatives := make([]models.Initiative, 0, len(draft.Initiatives))
	for _, in := range draft.Initiatives {
		it := models.Initiative{Title: trim(in.Title), Status: in.Status, Details: trim(in.Details)}
		if it.Status == "" {
			it.Status = models.StatusPlanning
		}
		if it.Title == "" || it.Details == "" {
			continue
		}
		initiatives = append(initiatives, it)
	}

	out := models.ClientRecord{
		ID:                trim(draft.ID),
		Name:              trim(draft.Name),
		Industry:          trim(draft.Industry),
		Summary:           trim(draft.Summary),
		KPIPeriods:        periods,
		MonthlyHighlights: trimList(first.MonthlyHighlights),
		ThisMonthActions:  trimList(first.ThisMonthActions),
		NextMonthActions:  trimList(first.NextMonthActions),
		Initiatives:       initiatives,
	}
	if out.ID == "" {
		out.ID = trim(fallbackID)
	}

	if draft.EcommerceEnabled {
		if draft.Ecommerce != nil {
			snapshot := trimEcommerce(*draft.Ecommerce)
			out.Ecommerce = &snapshot
		} else {
			out.Ecommerce = &models.EcommerceSnapshot{}
		}
		ecomPeriods := make([]models.EcommercePeriod, 0, len(draft.EcommercePeriods))
		for i, period := range draft.EcommercePeriods {
			p := models.EcommercePeriod{
				ID:        trim(period.ID),
				Label:     trim(period.Label),
				Ecommerce: trimEcommerce(period.Ecommerce),
			}
			if p.Label == "" && !anyEcommerceValue(p.Ecommerce) {
				continue
			}
			if p.ID == "" {
				p.ID = fmt.Sprintf("ecom-%d", i+1)
			}
			if p.Label == "" {
				p.Label = fmt.Sprintf("Mois %d", i+1)
			}
			ecomPeriods = append(ecomPeriods, p)
		}
		if len(ecomPeriods) > 0 {
			out.EcommercePeriods = ecomPeriods
		}
	}

	if draft.AdsEnabled {
		if draft.Ads != nil {
			snapshot := trimAds(*draft.Ads)
			out.Ads = &snapshot
		} else {
			out.Ads = &models.AdsSnapshot{}
		}
		adsPeriods := make([]models.AdsPeriod, 0, len(draft.AdsPeriods))
		for i, period := range draft.AdsPeriods {
			p := models.AdsPeriod{
				ID:    trim(period.ID),
				Label: trim(period.Label),
				Ads:   trimAds(period.Ads),
			}
			if p.Label == "" && !anyAdsValue(p.Ads) {
				continue
			}
			if p.ID == "" {
				p.ID = fmt.Sprintf("ads-%d", i+1)
			}
			if p.Label == "" {
				p.Label = fmt.Sprintf("Semaine %d", i+1)
			}
			adsPeriods = append(adsPeriods, p)
		}
		if len(adsPeriods) > 0 {
			out.AdsPeriods = adsPeriods
		}
	}

	return out
}
