package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

const envPrefix = "DASHBOARD"

type HTTP struct {
	Addr         string
	AllowOrigins []string
	RateLimit    float64
	RateBurst    int
}

type Cache struct {
	TTL           time.Duration
	AlertsTTL     time.Duration
	StatsTTL      time.Duration
	ResourcesTTL  time.Duration
	HTTPAlertsTTL time.Duration
	ExternalTTL   time.Duration
}

type Aggregator struct {
	MaxRetries    int
	RetryInterval time.Duration
}

type Refresh struct {
	Interval       time.Duration
	AlertsInterval time.Duration
	OnStart        bool
}

type Louisville struct {
	BaseURL          string
	AppToken         string
	StatsDataset     string
	BedsDataset      string
	ResourcesDataset string
}

type Sources struct {
	Timeout   time.Duration
	UserAgent string
	CoCCode   string

	HUDBaseURL string
	HUDAPIKey  string

	Louisville Louisville

	DataGovBaseURL      string
	DataGovAPIKey       string
	DataGovStatsPackage string

	CoCReportURL string

	NWSBaseURL string
	NWSZone    string
}

type Config struct {
	LogLevel       string
	LogDevelopment bool

	HTTP         HTTP
	Cache        Cache
	Aggregator   Aggregator
	Refresh      Refresh
	Sources      Sources
	FallbackPath string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperLogLevel, "info")
	v.SetDefault(constants.ViperLogDevelopment, false)

	v.SetDefault(constants.ViperHTTPAddr, ":8080")
	v.SetDefault(constants.ViperHTTPAllowOrigins, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperHTTPRateLimit, 20)
	v.SetDefault(constants.ViperHTTPRateBurst, 40)

	v.SetDefault(constants.ViperCacheTTL, time.Hour)
	v.SetDefault(constants.ViperCacheAlertsDataTTL, 5*time.Minute)
	v.SetDefault(constants.ViperCacheStatsTTL, 15*time.Minute)
	v.SetDefault(constants.ViperCacheResourcesTTL, 5*time.Minute)
	v.SetDefault(constants.ViperCacheAlertsTTL, 2*time.Minute)
	v.SetDefault(constants.ViperCacheExternalTTL, 30*time.Minute)

	v.SetDefault(constants.ViperAggregatorMaxRetries, 1)
	v.SetDefault(constants.ViperAggregatorRetryInterval, 500*time.Millisecond)

	v.SetDefault(constants.ViperRefreshInterval, time.Hour)
	v.SetDefault(constants.ViperRefreshAlertsInterval, 10*time.Minute)
	v.SetDefault(constants.ViperRefreshOnStart, true)

	v.SetDefault(constants.ViperSourcesTimeout, 8*time.Second)
	v.SetDefault(constants.ViperSourcesUserAgent, "hopelouisville-dashboard (ops@hopelouisville.org)")
	v.SetDefault(constants.ViperSourcesCoCCode, "KY-501")

	v.SetDefault(constants.ViperHUDBaseURL, "")
	v.SetDefault(constants.ViperHUDAPIKey, "")

	v.SetDefault(constants.ViperLouisvilleBaseURL, "")
	v.SetDefault(constants.ViperLouisvilleAppToken, "")
	v.SetDefault(constants.ViperLouisvilleStatsDataset, "homeless-pit-count")
	v.SetDefault(constants.ViperLouisvilleBedsDataset, "shelter-bed-capacity")
	v.SetDefault(constants.ViperLouisvilleResourcesDataset, "homeless-service-locations")

	v.SetDefault(constants.ViperDataGovBaseURL, "https://catalog.data.gov/api/3")
	v.SetDefault(constants.ViperDataGovAPIKey, "")
	v.SetDefault(constants.ViperDataGovStatsPackage, "")

	v.SetDefault(constants.ViperCoCReportURL, "")

	v.SetDefault(constants.ViperNWSBaseURL, "https://api.weather.gov")
	v.SetDefault(constants.ViperNWSZone, "KYC111")

	v.SetDefault(constants.ViperFallbackPath, "")
}

// Flags registers the command line flags Load understands.
func Flags(fs *pflag.FlagSet) {
	fs.String(constants.ViperConfigFile, "", "path to a config file (yaml, json or toml)")
	fs.String(constants.ViperHTTPAddr, "", "listen address")
	fs.String(constants.ViperLogLevel, "", "log level")
}

// Load builds the configuration from defaults, an optional config file, DASHBOARD_* environment
// variables and flags, in increasing order of precedence.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = v.BindPFlag(f.Name, f)
			}
		})
	}

	if path := v.GetString(constants.ViperConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		LogLevel:       v.GetString(constants.ViperLogLevel),
		LogDevelopment: v.GetBool(constants.ViperLogDevelopment),
		HTTP: HTTP{
			Addr:         v.GetString(constants.ViperHTTPAddr),
			AllowOrigins: v.GetStringSlice(constants.ViperHTTPAllowOrigins),
			RateLimit:    v.GetFloat64(constants.ViperHTTPRateLimit),
			RateBurst:    v.GetInt(constants.ViperHTTPRateBurst),
		},
		Cache: Cache{
			TTL:           v.GetDuration(constants.ViperCacheTTL),
			AlertsTTL:     v.GetDuration(constants.ViperCacheAlertsDataTTL),
			StatsTTL:      v.GetDuration(constants.ViperCacheStatsTTL),
			ResourcesTTL:  v.GetDuration(constants.ViperCacheResourcesTTL),
			HTTPAlertsTTL: v.GetDuration(constants.ViperCacheAlertsTTL),
			ExternalTTL:   v.GetDuration(constants.ViperCacheExternalTTL),
		},
		Aggregator: Aggregator{
			MaxRetries:    v.GetInt(constants.ViperAggregatorMaxRetries),
			RetryInterval: v.GetDuration(constants.ViperAggregatorRetryInterval),
		},
		Refresh: Refresh{
			Interval:       v.GetDuration(constants.ViperRefreshInterval),
			AlertsInterval: v.GetDuration(constants.ViperRefreshAlertsInterval),
			OnStart:        v.GetBool(constants.ViperRefreshOnStart),
		},
		Sources: Sources{
			Timeout:    v.GetDuration(constants.ViperSourcesTimeout),
			UserAgent:  v.GetString(constants.ViperSourcesUserAgent),
			CoCCode:    v.GetString(constants.ViperSourcesCoCCode),
			HUDBaseURL: v.GetString(constants.ViperHUDBaseURL),
			HUDAPIKey:  v.GetString(constants.ViperHUDAPIKey),
			Louisville: Louisville{
				BaseURL:          v.GetString(constants.ViperLouisvilleBaseURL),
				AppToken:         v.GetString(constants.ViperLouisvilleAppToken),
				StatsDataset:     v.GetString(constants.ViperLouisvilleStatsDataset),
				BedsDataset:      v.GetString(constants.ViperLouisvilleBedsDataset),
				ResourcesDataset: v.GetString(constants.ViperLouisvilleResourcesDataset),
			},
			DataGovBaseURL:      v.GetString(constants.ViperDataGovBaseURL),
			DataGovAPIKey:       v.GetString(constants.ViperDataGovAPIKey),
			DataGovStatsPackage: v.GetString(constants.ViperDataGovStatsPackage),
			CoCReportURL:        v.GetString(constants.ViperCoCReportURL),
			NWSBaseURL:          v.GetString(constants.ViperNWSBaseURL),
			NWSZone:             v.GetString(constants.ViperNWSZone),
		},
		FallbackPath: v.GetString(constants.ViperFallbackPath),
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("%s is empty", constants.ViperHTTPAddr))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", constants.ViperCacheTTL))
	}
	if c.Refresh.Interval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", constants.ViperRefreshInterval))
	}
	if c.Refresh.AlertsInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", constants.ViperRefreshAlertsInterval))
	}
	if c.Aggregator.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", constants.ViperAggregatorMaxRetries))
	}
	if c.Sources.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", constants.ViperSourcesTimeout))
	}
	return errors.Join(errs...)
}
