package catalyst

// Config holds the Catalyst Center connection settings.
type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	VerifySSL bool   `mapstructure:"verify_ssl"`
	Debug     bool   `mapstructure:"debug"`
}
