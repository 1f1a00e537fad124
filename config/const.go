package config

const (
	FlagConfigPath = "config-path"
	FlagDBPass     = "db-pass"

	DBDialectMysql   = "mysql"
	DBDialectSqlite3 = "sqlite3"

	EnvVarConfigFilePath = "CONFIG_FILE_PATH"
	EnvVarDBUserPass     = "DB_PASSWORD"
)
