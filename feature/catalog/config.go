package catalog

// Config holds configuration for the upstream catalog export API and the
// snapshot archive.
type Config struct {
	// BaseURL is the root of the ERP integrator export API.
	// Empty disables sync (resolution keeps using the local catalog).
	BaseURL string `mapstructure:"base_url" default:""`
	// Token is the bearer token for the export API.
	Token string `mapstructure:"token" default:""`
	// Key is the integration key sent as the Chave query parameter.
	Key string `mapstructure:"key" default:""`
	// TimeoutSeconds bounds each export request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// SnapshotObject is the stable object name for the latest catalog snapshot.
	SnapshotObject string `mapstructure:"snapshot_object" default:"snapshots/catalog-latest.json"`
}
