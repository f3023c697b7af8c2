package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName        = "shipstats"
	UserDir        = "user"
	RunDBFile      = "runs.db"
	LogFile        = "shipstats.log"
	CfgFile        = "shipstats.toml"
	WatchDebounce  = 500 * time.Millisecond
	TelemetryFlush = 2 * time.Second
)
