package config

import "os"

func IsDebug() bool {
	return os.Getenv("MEMYBOT_DEBUG") == "1"
}
