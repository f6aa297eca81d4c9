package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/panvault/internal/flagx"
	"github.com/dmitrijs2005/panvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the token lifetime either as a string
// like "168h" or as integer nanoseconds. After parsing, values are copied
// into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	JWTSecret             string         `json:"jwt_secret"`
	PANSecret             string         `json:"pan_secret"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	PasswordCost          int            `json:"password_cost"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag, if any. Only fields present in the file override the
// current values. Read or unmarshal failures panic; LoadConfig runs at
// startup where that is the fail-fast behavior we want.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddrHTTP != "" {
		cfg.EndpointAddrHTTP = jc.EndpointAddrHTTP
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.JWTSecret != "" {
		cfg.JWTSecret = jc.JWTSecret
	}
	if jc.PANSecret != "" {
		cfg.PANSecret = jc.PANSecret
	}
	if jc.TokenValidityDuration.Duration != 0 {
		cfg.TokenValidityDuration = time.Duration(jc.TokenValidityDuration.Duration)
	}
	if jc.PasswordCost != 0 {
		cfg.PasswordCost = jc.PasswordCost
	}
}
