package models

import "time"

// RatelimitConfig holds the API rate limit, stored in the database so it can
// be changed without a redeploy. Rate uses ulule/limiter's formatted syntax,
// e.g. "5-S" or "100-M".
type RatelimitConfig struct {
	ConfigKey string    `json:"config_key"`
	Rate      string    `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
