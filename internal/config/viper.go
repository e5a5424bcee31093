package config

import (
	"os"

	"github.com/spf13/viper"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}
