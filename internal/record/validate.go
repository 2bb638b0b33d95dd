package record

import (
	"fmt"

	"github.com/amiseo/cockpit/internal/models"
)

// Issue is one field-level validation failure, addressed by the JSON
// path of the offending field.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string { return i.Path + ": " + i.Message }

var validStatuses = map[string]bool{
	models.StatusActive:     true,
	models.StatusPaused:     true,
	models.StatusMonitoring: true,
	models.StatusPlanning:   true,
}

// Validate checks a submitted client payload against the record schema
// and returns every violation found. An empty slice means the payload is
// acceptable. The legacy mirror lists are accepted as given; canonical
// data is what gets checked.
func Validate(rec models.ClientRecord) []Issue {
	var issues []Issue
	add := func(path, message string) {
		issues = append(issues, Issue{Path: path, Message: message})
	}

	if rec.ID == "" {
		add("id", "requis")
	}
	if rec.Name == "" {
		add("name", "requis")
	}
	if rec.Industry == "" {
		add("industry", "requis")
	}
	if rec.Summary == "" {
		add("summary", "requis")
	}

	for i, period := range rec.KPIPeriods {
		base := fmt.Sprintf("kpiPeriods[%d]", i)
		if period.ID == "" {
			add(base+".id", "requis")
		}
		if period.Label == "" {
			add(base+".label", "requis")
		}
		for j, kpi := range period.KPIs {
			if kpi.Label == "" {
				add(fmt.Sprintf("%s.kpis[%d].label", base, j), "requis")
			}
			if kpi.Value == "" {
				add(fmt.Sprintf("%s.kpis[%d].value", base, j), "requis")
			}
		}
	}

	for i, initiative := range rec.Initiatives {
		if !validStatuses[initiative.Status] {
			add(fmt.Sprintf("initiatives[%d].status", i),
				"doit être active, paused, monitoring ou planning")
		}
	}

	return issues
}
