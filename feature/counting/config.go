package counting

// Duplicate-scan policies. The active policy applies to the whole
// deployment and is echoed in every ingest response so clients phrase
// their feedback consistently.
const (
	// PolicyIncrement adds the label quantity on every repeat scan.
	PolicyIncrement = "increment"
	// PolicyReject refuses repeat scans of an already-counted item.
	PolicyReject = "reject"
)

// Variance catalog scopes.
const (
	// ScopeAll reports every catalog item, scanned or not.
	ScopeAll = "all"
	// ScopeCounted reports only items that were actually scanned.
	ScopeCounted = "counted"
)

// Config holds the scan ingestion and variance policies.
type Config struct {
	// DuplicatePolicy selects the repeat-scan behavior (increment, reject).
	DuplicatePolicy string `mapstructure:"duplicate_policy" default:"increment"`
	// VarianceScope selects which catalog items appear in variance reports
	// (all, counted).
	VarianceScope string `mapstructure:"variance_scope" default:"all"`
}

// IsValid checks both policy fields.
func (c Config) IsValid() bool {
	switch c.DuplicatePolicy {
	case PolicyIncrement, PolicyReject:
	default:
		return false
	}
	switch c.VarianceScope {
	case ScopeAll, ScopeCounted:
	default:
		return false
	}
	return true
}
