package config

import "fmt"

type ServerConfig struct {
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

// IsSQLite reports whether the embedded driver is selected.
func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BusinessConfig holds the environment fallbacks for business settings.
// Values stored in system_settings take precedence.
type BusinessConfig struct {
	MinAdvanceDays    int     `mapstructure:"min_advance_days"`
	MaxAdvanceDays    int     `mapstructure:"max_advance_days"`
	DefaultCapacity   int     `mapstructure:"default_capacity"`
	CancelBeforeHours int     `mapstructure:"cancel_before_hours"`
	TaxPercentage     float64 `mapstructure:"tax_percentage"`
	BillDueDays       int     `mapstructure:"bill_due_days"`
	MaxPauseDays      int     `mapstructure:"max_pause_days"`
	LookaheadDays     int     `mapstructure:"lookahead_days"`
	SettingsCacheTTL  int     `mapstructure:"settings_cache_ttl_seconds"`
}

type WorkerConfig struct {
	ScheduleCron    string `mapstructure:"schedule_cron"`
	BillingCron     string `mapstructure:"billing_cron"`
	MaintenanceCron string `mapstructure:"maintenance_cron"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}
