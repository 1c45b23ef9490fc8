package config

const EnvPrefix = "IMAGEFLOW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "IMAGEFLOW_DB_DSN"
	EnvDBHost = "IMAGEFLOW_DB_HOST"
	EnvDBUser = "IMAGEFLOW_DB_USER"
	EnvDBName = "IMAGEFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
