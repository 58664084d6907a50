package config

// EnvPrefix is unused by the CRYSTAL_* tags but envconfig.Process requires
// a prefix argument for untagged fields.
const EnvPrefix = "CRYSTAL"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "CRYSTAL_DB_DSN"
	EnvDBHost = "CRYSTAL_DB_HOST"
	EnvDBUser = "CRYSTAL_DB_USER"
	EnvDBName = "CRYSTAL_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
