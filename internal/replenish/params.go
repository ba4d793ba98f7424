package replenish

// Default scoring parameters, applied whenever a caller supplies a
// non-positive value. Bad parameters are substituted rather than rejected,
// and the resolved values are echoed in every response.
const (
	DefaultWindowDays     = 30
	DefaultLeadTimeDays   = 7
	DefaultStorageDays    = 60
	DefaultNearMarginDays = 15
)

// Params are the scoring knobs for one decision computation.
type Params struct {
	WindowDays     int `json:"window_days"`
	LeadTimeDays   int `json:"lead_time_days"`
	StorageDays    int `json:"storage_days"`
	NearMarginDays int `json:"near_margin_days"`
}

// DefaultParams returns the stock defaults.
func DefaultParams() Params {
	return Params{
		WindowDays:     DefaultWindowDays,
		LeadTimeDays:   DefaultLeadTimeDays,
		StorageDays:    DefaultStorageDays,
		NearMarginDays: DefaultNearMarginDays,
	}
}

// Normalize substitutes defaults for malformed values so the scorer can never
// see a zero divisor. NearMarginDays of zero is legal (no near band).
func (p Params) Normalize() Params {
	if p.WindowDays <= 0 {
		p.WindowDays = DefaultWindowDays
	}
	if p.LeadTimeDays <= 0 {
		p.LeadTimeDays = DefaultLeadTimeDays
	}
	if p.StorageDays <= 0 {
		p.StorageDays = DefaultStorageDays
	}
	if p.NearMarginDays < 0 {
		p.NearMarginDays = DefaultNearMarginDays
	}
	return p
}
