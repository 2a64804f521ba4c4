package collector

// Config holds the collection policy knobs.
type Config struct {
	Bands              []string `mapstructure:"bands"`
	HealthThreshold    float64  `mapstructure:"health_threshold"`
	ChangesThreshold   int      `mapstructure:"changes_threshold"`
	BuildingScopeTypes []string `mapstructure:"building_scope_types"`
	Debug              bool     `mapstructure:"debug"`
}
