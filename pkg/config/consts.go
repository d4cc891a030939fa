package config

const (
	EnvPrefix = "mandisathi"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MANDISATHI_DB_DSN"
	EnvDBHost = "MANDISATHI_DB_HOST"
	EnvDBUser = "MANDISATHI_DB_USER"
	EnvDBName = "MANDISATHI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
