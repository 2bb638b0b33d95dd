// Package record holds the canonical-shape rules for client records:
// migration of legacy single-period data into the multi-period shape,
// draft preparation for editing surfaces, and sanitation of submitted
// drafts back into a persistable record.
package record

import (
	"github.com/google/uuid"

	"github.com/amiseo/cockpit/internal/models"
)

const (
	// CurrentPeriodLabel names the period synthesized from legacy fields.
	CurrentPeriodLabel = "Période en cours"

	currentMonthLabel = "Mois en cours"
	currentWeekLabel  = "Semaine en cours"
)

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// padded returns the list itself, or the single blank placeholder row
// when the list is empty. Editing surfaces always need a row to fill.
func padded(in []string) []string {
	if len(in) == 0 {
		return []string{""}
	}
	return cloneStrings(in)
}

func cloneKPIs(in []models.KPI) []models.KPI {
	out := make([]models.KPI, len(in))
	copy(out, in)
	return out
}

func clonePeriod(p models.KPIPeriod) models.KPIPeriod {
	return models.KPIPeriod{
		ID:                p.ID,
		Label:             p.Label,
		KPIs:              cloneKPIs(p.KPIs),
		MonthlyHighlights: cloneStrings(p.MonthlyHighlights),
		ThisMonthActions:  cloneStrings(p.ThisMonthActions),
		NextMonthActions:  cloneStrings(p.NextMonthActions),
	}
}

func clonePeriods(in []models.KPIPeriod) []models.KPIPeriod {
	out := make([]models.KPIPeriod, 0, len(in))
	for _, p := range in {
		out = append(out, clonePeriod(p))
	}
	return out
}

// derivedID builds a deterministic id from the record id, falling back
// to a random one for records that have no id yet.
func derivedID(prefix, recordID string) string {
	if recordID == "" {
		return prefix + uuid.NewString()
	}
	return prefix + recordID
}

// kpiPeriods returns the record's canonical period list, synthesizing a
// single period from the legacy top-level fields when none exist.
func kpiPeriods(rec models.ClientRecord) []models.KPIPeriod {
	if len(rec.KPIPeriods) > 0 {
		return clonePeriods(rec.KPIPeriods)
	}
	return []models.KPIPeriod{{
		ID:                derivedID("periode-", rec.ID),
		Label:             CurrentPeriodLabel,
		KPIs:              cloneKPIs(rec.KPIs),
		MonthlyHighlights: padded(rec.MonthlyHighlights),
		ThisMonthActions:  padded(rec.ThisMonthActions),
		NextMonthActions:  padded(rec.NextMonthActions),
	}}
}

// Normalize converts a possibly legacy-shaped record into the canonical
// multi-period shape. It is idempotent: normalizing an already-canonical
// record returns an equal record.
func Normalize(rec models.ClientRecord) models.ClientRecord {
	out := rec
	out.KPIPeriods = kpiPeriods(rec)

	first := out.KPIPeriods[0]
	out.MonthlyHighlights = padded(first.MonthlyHighlights)
	out.ThisMonthActions = padded(first.ThisMonthActions)
	out.NextMonthActions = padded(first.NextMonthActions)

	out.KPIs = cloneKPIs(rec.KPIs)
	out.Initiatives = append([]models.Initiative(nil), rec.Initiatives...)

	switch {
	case len(rec.EcommercePeriods) > 0:
		out.EcommercePeriods = append([]models.EcommercePeriod(nil), rec.EcommercePeriods...)
	case rec.Ecommerce != nil:
		out.EcommercePeriods = []models.EcommercePeriod{{
			ID:        derivedID("ecom-", rec.ID),
			Label:     currentMonthLabel,
			Ecommerce: *rec.Ecommerce,
		}}
	}

	switch {
	case len(rec.AdsPeriods) > 0:
		out.AdsPeriods = append([]models.AdsPeriod(nil), rec.AdsPeriods...)
	case rec.Ads != nil:
		out.AdsPeriods = []models.AdsPeriod{{
			ID:    derivedID("ads-", rec.ID),
			Label: currentWeekLabel,
			Ads:   *rec.Ads,
		}}
	}

	if rec.Ecommerce != nil {
		snapshot := *rec.Ecommerce
		out.Ecommerce = &snapshot
	}
	if rec.Ads != nil {
		snapshot := *rec.Ads
		out.Ads = &snapshot
	}

	return out
}

// Draft prepares a record for an editing surface: canonical periods with
// every list padded to at least one blank row, at least one initiative
// row, defaulted ecommerce/ads data, and the section toggles set from
// whether the record carries any data for them.
func Draft(rec models.ClientRecord) models.DraftRecord {
	canonical := Normalize(rec)

	for i := range canonical.KPIPeriods {
		p := &canonical.KPIPeriods[i]
		p.MonthlyHighlights = padded(p.MonthlyHighlights)
		p.ThisMonthActions = padded(p.ThisMonthActions)
		p.NextMonthActions = padded(p.NextMonthActions)
	}

	if len(canonical.Initiatives) == 0 {
		canonical.Initiatives = []models.Initiative{{Status: models.StatusPlanning}}
	}

	ecommerceEnabled := rec.Ecommerce != nil || len(rec.EcommercePeriods) > 0
	adsEnabled := rec.Ads != nil || len(rec.AdsPeriods) > 0

	if canonical.Ecommerce == nil {
		canonical.Ecommerce = &models.EcommerceSnapshot{}
	}
	if len(canonical.EcommercePeriods) == 0 {
		canonical.EcommercePeriods = []models.EcommercePeriod{{
			ID:    "ecom-" + uuid.NewString(),
			Label: currentMonthLabel,
		}}
	}
	if canonical.Ads == nil {
		canonical.Ads = &models.AdsSnapshot{}
	}
	if len(canonical.AdsPeriods) == 0 {
		canonical.AdsPeriods = []models.AdsPeriod{{
			ID:    "ads-" + uuid.NewString(),
			Label: currentWeekLabel,
		}}
	}

	return models.DraftRecord{
		ClientRecord:     canonical,
		EcommerceEnabled: ecommerceEnabled,
		AdsEnabled:       adsEnabled,
	}
}
