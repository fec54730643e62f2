package config

// EnvPrefix is the envconfig prefix; individual fields carry explicit names so
// the prefix only matters for variables without a tag.
const EnvPrefix = "BLOEMEN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BLOEMEN_DB_DSN"
	EnvDBHost = "BLOEMEN_DB_HOST"
	EnvDBUser = "BLOEMEN_DB_USER"
	EnvDBName = "BLOEMEN_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
