package app

// defaults are used when neither the config file nor the environment sets a key.
var defaults = map[string]any{
	"app.tz":                                      "UTC",
	"app.server.http.address":                     ":8080",
	"app.server.http.read_timeout_seconds":        10,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       15,
	"app.server.http.idle_timeout_seconds":        60,
	"app.server.max_goroutine":                    64,
	"app.server.cors":                             "*",
	"app.server.trust_proxy":                      false,
	"app.maintenance.endpoints":                   "",

	"bot.token":                   "",
	"bot.api_url":                 "https://api.telegram.org",
	"bot.webhook_url":             "",
	"bot.request_timeout_seconds": 10,
	"bot.max_retries":             3,
	"bot.webhook_max_retries":     5,

	"otp.period":                30,
	"otp.min_remaining_seconds": 5,

	"registry.secret_key_pairs": "",
	"registry.allowed_domains":  "gmail.com,outlook.com",

	"session.shards": 32,

	"idempotency.driver":      "memory",
	"idempotency.ttl_seconds": 3600,
	"redis.url":               "redis://localhost:6379/0",

	"messaging.driver":                                    "none",
	"messaging.nsq.producer_addr":                         "localhost:4150",
	"messaging.nsq.producer_config.max_in_flight":         1,
	"messaging.nsq.producer_config.dial_timeout_seconds":  5,
	"messaging.nsq.producer_config.read_timeout_seconds":  60,
	"messaging.nsq.producer_config.write_timeout_seconds": 5,
	"messaging.nats.url":                                  "nats://localhost:4222",
	"messaging.nats.name":                                 "otpbot",
	"messaging.nats.max_reconnects":                       60,
	"messaging.nats.timeout_seconds":                      5,
	"messaging.nats.reconnect_wait_seconds":               2,
	"messaging.nats.ping_interval_seconds":                120,
	"messaging.nats.max_pings_outstanding":                2,
	"messaging.nats.retry_on_failed_connect":              true,
	"messaging.kafka.brokers":                             "localhost:9092",
	"messaging.kafka.write_timeout_seconds":               10,
	"messaging.pubsub.project_id":                         "",
	"messaging.pubsub.endpoint":                           "",
	"messaging.pubsub.without_auth":                       false,
	"messaging.pubsub.credentials_file":                   "",

	"instrument.enabled":                 false,
	"instrument.service_name":            "otpbot",
	"instrument.service_version":         "0.1.0",
	"instrument.env":                     "development",
	"instrument.otlp_endpoint":           "localhost:4317",
	"instrument.otlp_secure":             false,
	"instrument.trace_sample_ratio":      1.0,
	"instrument.metric_interval_seconds": 60,
	"instrument.log_level":               "info",
	"instrument.log_mask_fields":         "secret,code,token,secret_key_pairs",
}

// envAliases keeps the environment names used by existing deployments.
var envAliases = map[string]string{
	"bot.token":                 "BOT_TOKEN",
	"registry.secret_key_pairs": "SECRET_KEY_PAIRS",
}
