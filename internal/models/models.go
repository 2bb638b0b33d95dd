package models

// Roles carried by user records and session claims.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Initiative statuses. Anything else is rejected at validation.
const (
	StatusActive     = "active"
	StatusPaused     = "paused"
	StatusMonitoring = "monitoring"
	StatusPlanning   = "planning"
)

type KPI struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Helper string `json:"helper,omitempty"`
}

// KPIPeriod is one labeled time bucket of KPIs plus the three
// free-text lists shown next to them.
type KPIPeriod struct {
	ID                string   `json:"id"`
	Label             string   `json:"label"`
	KPIs              []KPI    `json:"kpis"`
	MonthlyHighlights []string `json:"monthlyHighlights"`
	ThisMonthActions  []string `json:"thisMonthActions"`
	NextMonthActions  []string `json:"nextMonthActions"`
}

type Initiative struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

type EcommerceSnapshot struct {
	Revenue            string `json:"revenue"`
	ConversionRate     string `json:"conversionRate"`
	ReturningCustomers string `json:"returningCustomers"`
	TopProduct         string `json:"topProduct"`
	AvgOrderValue      string `json:"avgOrderValue"`
	CartAbandonment    string `json:"cartAbandonment"`
}

type EcommercePeriod struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	Ecommerce EcommerceSnapshot `json:"ecommerce"`
}

type AdsSnapshot struct {
	Spend       string `json:"spend"`
	ROAS        string `json:"roas"`
	CPA         string `json:"cpa"`
	Impressions string `json:"impressions"`
	CTR         string `json:"ctr"`
	BestChannel string `json:"bestChannel"`
}

type AdsPeriod struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Ads   AdsSnapshot `json:"ads"`
}

// ClientRecord is one client's dashboard data as stored in clients.json.
//
// Canonical data lives in the period slices. The top-level KPIs and the
// three list fields mirror the first KPI period for readers that predate
// the multi-period shape. Ecommerce and ads are optional features; a nil
// pointer / empty slice means the section is not shown to the client,
// which is different from an empty snapshot.
type ClientRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Summary  string `json:"summary"`

	KPIPeriods []KPIPeriod `json:"kpiPeriods,omitempty"`

	// Legacy mirror of the first period.
	KPIs              []KPI    `json:"kpis"`
	MonthlyHighlights []string `json:"monthlyHighlights"`
	ThisMonthActions  []string `json:"thisMonthActions"`
	NextMonthActions  []string `json:"nextMonthActions"`

	Initiatives []Initiative `json:"initiatives"`

	Ecommerce        *EcommerceSnapshot `json:"ecommerce,omitempty"`
	EcommercePeriods []EcommercePeriod  `json:"ecommercePeriods,omitempty"`
	Ads              *AdsSnapshot       `json:"ads,omitempty"`
	AdsPeriods       []AdsPeriod        `json:"adsPeriods,omitempty"`
}

// DraftRecord is the editing-surface shape of a client record: same data
// plus the section toggles, which are UI state and never persisted.
type DraftRecord struct {
	ClientRecord
	EcommerceEnabled bool `json:"ecommerceEnabled"`
	AdsEnabled       bool `json:"adsEnabled"`
}

// UserRecord is one login as stored in users.json. Password holds a
// bcrypt hash; bare values are accepted as legacy plaintext.
type UserRecord struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	ClientID    string `json:"clientId,omitempty"`
}
