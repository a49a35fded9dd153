package cmd

import "time"

// Config carries every external knob the service needs. Values come from the
// environment; see cmd/app for the loading side.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr        string
	TrackingCacheTTL time.Duration

	ORSAPIKey string

	SendGridAPIKey    string
	SenderEmail       string
	SenderName        string
	EscalationAddress string

	// Warehouse coordinates anchor delivery fee calculation.
	WarehouseLat     float64
	WarehouseLng     float64
	DeliveryBaseFee  int64
	DeliveryPerKmFee int64

	ClaimTimeout     time.Duration
	EditWindow       time.Duration
	ETAOverrideLimit int
}
