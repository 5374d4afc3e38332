package constants

// Viper keys.
const (
	ViperConfigFile = "config"

	ViperLogLevel       = "log.level"
	ViperLogDevelopment = "log.development"

	ViperHTTPAddr         = "http.addr"
	ViperHTTPAllowOrigins = "http.allow_origins"
	ViperHTTPRateLimit    = "http.rate_limit"
	ViperHTTPRateBurst    = "http.rate_burst"

	ViperCacheTTL           = "cache.ttl"
	ViperCacheStatsTTL      = "cache.http.stats_ttl"
	ViperCacheResourcesTTL  = "cache.http.resources_ttl"
	ViperCacheAlertsTTL     = "cache.http.alerts_ttl"
	ViperCacheExternalTTL   = "cache.http.external_ttl"
	ViperCacheAlertsDataTTL = "cache.alerts_ttl"

	ViperAggregatorMaxRetries    = "aggregator.max_retries"
	ViperAggregatorRetryInterval = "aggregator.retry_interval"

	ViperRefreshInterval       = "refresh.interval"
	ViperRefreshAlertsInterval = "refresh.alerts_interval"
	ViperRefreshOnStart        = "refresh.on_start"

	ViperSourcesTimeout   = "sources.timeout"
	ViperSourcesUserAgent = "sources.user_agent"
	ViperSourcesCoCCode   = "sources.coc_code"

	ViperHUDBaseURL = "sources.hud.base_url"
	ViperHUDAPIKey  = "sources.hud.api_key"

	ViperLouisvilleBaseURL          = "sources.louisville.base_url"
	ViperLouisvilleStatsDataset     = "sources.louisville.stats_dataset"
	ViperLouisvilleBedsDataset      = "sources.louisville.beds_dataset"
	ViperLouisvilleResourcesDataset = "sources.louisville.resources_dataset"
	ViperLouisvilleAppToken         = "sources.louisville.app_token"

	ViperDataGovBaseURL      = "sources.datagov.base_url"
	ViperDataGovAPIKey       = "sources.datagov.api_key"
	ViperDataGovStatsPackage = "sources.datagov.stats_package"

	ViperCoCReportURL = "sources.cocreport.url"

	ViperNWSBaseURL = "sources.nws.base_url"
	ViperNWSZone    = "sources.nws.zone"

	ViperFallbackPath = "fallback.path"
)

// Aggregator cache keys.
const (
	CacheKeyCurrentStats = "stats:current"
	CacheKeyHistorical   = "stats:historical"
	CacheKeyBeds         = "stats:beds"
	CacheKeyResources    = "resources:all"
	CacheKeyAlerts       = "alerts:active"
)

// Dataset and source names as they appear in envelopes.
const (
	SourceAggregator = "aggregator"
	SourceFallback   = "static-fallback"
	SourceHardcoded  = "hardcoded"
	SourceHUD        = "hud"
	SourceLouisville = "louisville-open-data"
	SourceDataGov    = "data.gov"
	SourceCoCReport  = "coc-report"
	SourceNWS        = "nws"
	SourceStore      = "resource-store"

	FallbackTierSnapshot  = "snapshot"
	FallbackTierHardcoded = "hardcoded"
)
