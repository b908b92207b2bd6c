package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marphezis/prebid-adapters/errortypes"
	"github.com/spf13/viper"
)

// Configuration specifies the static application config.
type Configuration struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	AdminPort      int    `mapstructure:"admin_port"`
	EnableGzip     bool   `mapstructure:"enable_gzip"`
	StatusResponse string `mapstructure:"status_response"`

	// COPPA is the global children's privacy flag. It is applied to every outbound request.
	COPPA bool `mapstructure:"coppa"`

	Adapters       map[string]Adapter        `mapstructure:"adapters"`
	BidderSettings map[string]BidderSettings `mapstructure:"bidder_settings"`
	Events         Events                    `mapstructure:"events"`
	Storage        Storage                   `mapstructure:"storage"`
	Metrics        Metrics                   `mapstructure:"metrics"`
}

// BidderSettings are the per bidder switches the host grants.
type BidderSettings struct {
	StorageAllowed bool `mapstructure:"storage_allowed"`
}

type Events struct {
	TimeoutMs int `mapstructure:"timeout_ms"`
}

type Metrics struct {
	Influxdb   InfluxMetrics     `mapstructure:"influxdb"`
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

type InfluxMetrics struct {
	Host               string `mapstructure:"host"`
	Database           string `mapstructure:"database"`
	Measurement        string `mapstructure:"measurement"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	AlignTimestamps    bool   `mapstructure:"align_timestamps"`
	MetricSendInterval int    `mapstructure:"metric_send_interval"`
}

type PrometheusMetrics struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// StorageAllowed reports whether the bidder may persist client side state.
func (cfg *Configuration) StorageAllowed(bidder string) bool {
	return cfg.BidderSettings[strings.ToLower(bidder)].StorageAllowed
}

func (cfg *Configuration) validate() []error {
	var errs []error
	errs = validateAdapters(cfg.Adapters, errs)
	errs = cfg.Storage.validate(errs)
	errs = cfg.Metrics.validate(errs)
	if cfg.Events.TimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("events.timeout_ms must be non-negative. Got %d", cfg.Events.TimeoutMs))
	}
	return errs
}

func (m *Metrics) validate(errs []error) []error {
	if m.Influxdb.Host != "" && m.Influxdb.MetricSendInterval <= 0 {
		errs = append(errs, errors.New("metrics.influxdb.metric_send_interval must be positive when metrics.influxdb.host is set"))
	}
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}

	return &c, nil
}

// SetupViper sets the defaults and the config file lookup. Passing an empty
// filename skips the file, which is how hosts embedding the adapters use it.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("status_response", "")
	v.SetDefault("coppa", false)

	v.SetDefault("adapters.oms.endpoint", "https://rt.marphezis.com/hb")
	v.SetDefault("adapters.oms.events_endpoint", "https://rt.marphezis.com/prebid")
	v.SetDefault("adapters.oms.disabled", false)
	v.SetDefault("adapters.brightcom.endpoint", "https://brightcombid.marphezis.com/hb")
	v.SetDefault("adapters.brightcom.disabled", false)

	v.SetDefault("bidder_settings.brightcom.storage_allowed", false)
	v.SetDefault("events.timeout_ms", 1000)

	v.SetDefault("storage.type", StorageMemory)
	v.SetDefault("storage.memory.size_bytes", 1024*1024)
	v.SetDefault("storage.memory.ttl_seconds", 0)
	v.SetDefault("storage.redis.addr", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout_ms", 200)
	v.SetDefault("storage.redis.key_prefix", "")
	v.SetDefault("storage.memcache.servers", []string{})
	v.SetDefault("storage.memcache.timeout_ms", 100)
	v.SetDefault("storage.postgres.host", "")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.dbname", "")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.table", "first_party_data")

	v.SetDefault("metrics.influxdb.host", "")
	v.SetDefault("metrics.influxdb.database", "")
	v.SetDefault("metrics.influxdb.measurement", "")
	v.SetDefault("metrics.influxdb.username", "")
	v.SetDefault("metrics.influxdb.password", "")
	v.SetDefault("metrics.influxdb.align_timestamps", false)
	v.SetDefault("metrics.influxdb.metric_send_interval", 20)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "")

	v.SetEnvPrefix("MPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		// A missing config file is fine, defaults and env vars cover everything.
		v.ReadInConfig()
	}
}
