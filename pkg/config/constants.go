package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry explicit
	// FRANKO_* names so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvGatewayAPIID  = "FRANKO_GATEWAY_API_ID"
	EnvGatewayAPIKey = "FRANKO_GATEWAY_API_KEY"
)
