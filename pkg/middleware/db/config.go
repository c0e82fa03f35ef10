package db

import "time"

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
)

type LogConf struct {
	Level         string
	SlowThreshold time.Duration
}

type Config struct {
	Driver       Driver
	Host         string
	Port         int
	User         string
	PW           string
	DBName       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	LogConf      LogConf
}
