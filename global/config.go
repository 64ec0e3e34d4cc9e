package global

import (
	"os"
	"strings"
	"time"

	decode "PMeet/tools/decode"
)

// AppConfig is populated once from the environment in main().
type AppConfig struct {
	NodeID      string `json:"node_id"`
	Port        int    `json:"port"`
	FrontendURL string `json:"frontend_url"` // allowed websocket origin; empty allows all

	JWTSecret string `json:"jwt_secret"`
	JWTTTLMin int    `json:"jwt_ttl_min"`

	MongoURI string `json:"mongo_uri"`
	MongoDB  string `json:"mongo_db"`

	RedisAddr     string `json:"redis_addr"` // empty disables the presence layer
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Delay before the user-joined broadcast, giving the joiner time to
	// attach before peers start negotiating toward it.
	JoinNotifyDelayMS int `json:"join_notify_delay_ms"`
}

func (c *AppConfig) norm() {
	if c.NodeID == "" {
		c.NodeID = "meet-gw-1"
	}
	if c.Port <= 0 {
		c.Port = 5001
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-secret-change-me"
	}
	if c.JWTTTLMin <= 0 {
		c.JWTTTLMin = 120
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://127.0.0.1:27017"
	}
	if c.MongoDB == "" {
		c.MongoDB = "my-meet"
	}
	if c.JoinNotifyDelayMS <= 0 {
		c.JoinNotifyDelayMS = 100
	}
}

func (c *AppConfig) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMin) * time.Minute
}

func (c *AppConfig) JoinNotifyDelay() time.Duration {
	return time.Duration(c.JoinNotifyDelayMS) * time.Millisecond
}

var conf AppConfig

// LoadConfig reads the process environment into the AppConfig. Variables use
// the upper-cased json tag, e.g. MONGO_URI, REDIS_ADDR, JWT_SECRET.
func LoadConfig() *AppConfig {
	m := map[string]any{}
	for _, tag := range []string{
		"node_id", "port", "frontend_url",
		"jwt_secret", "jwt_ttl_min",
		"mongo_uri", "mongo_db",
		"redis_addr", "redis_password", "redis_db",
		"join_notify_delay_ms",
	} {
		if v := os.Getenv(strings.ToUpper(tag)); v != "" {
			m[tag] = v
		}
	}

	c, err := decode.DecodeMap[AppConfig](m)
	if err != nil {
		// a malformed variable falls back to defaults rather than aborting
		c = &AppConfig{}
	}
	c.norm()
	conf = *c
	return &conf
}

func Config() *AppConfig {
	if conf == (AppConfig{}) {
		return LoadConfig()
	}
	return &conf
}
