package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "168h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http"`
	EndpointAddrHealth   string         `json:"endpoint_addr_health"`
	DatabaseDSN          string         `json:"database_dsn"`
	SecretKey            string         `json:"secret_key"`
	SessionDuration      timex.Duration `json:"session_duration"`
	CookieName           string         `json:"cookie_name"`
	CookieSecure         bool           `json:"cookie_secure"`
	CORSOrigins          []string       `json:"cors_origins"`
	EnforceNoteTypeRoles bool           `json:"enforce_note_type_roles"`
	AMQPURL              string         `json:"amqp_url"`
	AMQPExchange         string         `json:"amqp_exchange"`
	OTLPEndpoint         string         `json:"otlp_endpoint"`
	LogLevel             string         `json:"log_level"`
}

// parseJson loads the file named by -c or -config over config. Keys missing
// from the file keep their current values. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrHealth = c.EndpointAddrHealth
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionDuration = c.SessionDuration.Duration
	config.CookieName = c.CookieName
	config.CookieSecure = c.CookieSecure
	config.CORSOrigins = c.CORSOrigins
	config.EnforceNoteTypeRoles = c.EnforceNoteTypeRoles
	config.AMQPURL = c.AMQPURL
	config.AMQPExchange = c.AMQPExchange
	config.OTLPEndpoint = c.OTLPEndpoint
	config.LogLevel = c.LogLevel
}

func toJson(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:     config.EndpointAddrHTTP,
		EndpointAddrHealth:   config.EndpointAddrHealth,
		DatabaseDSN:          config.DatabaseDSN,
		SecretKey:            config.SecretKey,
		SessionDuration:      timex.Duration{Duration: config.SessionDuration},
		CookieName:           config.CookieName,
		CookieSecure:         config.CookieSecure,
		CORSOrigins:          config.CORSOrigins,
		EnforceNoteTypeRoles: config.EnforceNoteTypeRoles,
		AMQPURL:              config.AMQPURL,
		AMQPExchange:         config.AMQPExchange,
		OTLPEndpoint:         config.OTLPEndpoint,
		LogLevel:             config.LogLevel,
	}
}
