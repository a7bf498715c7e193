package config

import "time"

const defaultPort = 8080

// devSessionSecret is accepted only with DEV_MODE set.
const devSessionSecret = "rider-web-development-secret"

var defaultAPI = API{
	BaseURL:        "http://localhost:5001/api",
	Timeout:        10 * time.Second,
	RetryAttempts:  2,
	RetryBaseDelay: 200 * time.Millisecond,
	RetryMaxDelay:  time.Second,
	HealthPath:     "/health",
}

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "rider_web",
}

var defaultQuery = Query{
	StaleTime:        5 * time.Minute,
	DashboardRefresh: 30 * time.Second,
}

var defaultConnectivity = Connectivity{
	ProbeInterval:  10 * time.Second,
	ReconnectedFor: 3 * time.Second,
}

var defaultKafka = Kafka{
	GroupID:     "service-rider-web",
	OrdersTopic: "orders",
	StatusTopic: "rider.order-status",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       1,
	Burst:      5,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		Port:     defaultPort,
		LogLevel: "info",
		API:      defaultAPI,
		Session: Session{
			Backend: SessionBackendCookie,
			Secret:  devSessionSecret,
			MaxAge:  30 * 24 * time.Hour,
		},
		DB:           defaultDB,
		Auth:         Auth{PermittedRole: "rider"},
		Query:        defaultQuery,
		Connectivity: defaultConnectivity,
		Kafka:        defaultKafka,
		RateLimit:    defaultRateLimit,
	}
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}
