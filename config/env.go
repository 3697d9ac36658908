package config

import (
	"github.com/joho/godotenv"
)

// LoadEnv copies the given .env files (default ".env") into the process
// environment without overriding variables that are already set. It
// reports whether a file was read.
func LoadEnv(files ...string) bool {
	if err := godotenv.Load(files...); err != nil {
		Logger.Warn("No .env file loaded, using process environment: ", err)
		return false
	}
	return true
}
