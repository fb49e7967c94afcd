package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Cipher CipherConfig
	KDF    KDFConfig
}

// ServerConfig holds gateway configuration
type ServerConfig struct {
	Host string
	Port int
}

// CipherConfig holds defaults for the CLI and gateway requests
type CipherConfig struct {
	Mode     string
	Padding  string
	Parallel bool
	Charset  string
}

// KDFConfig holds passphrase key derivation settings
type KDFConfig struct {
	Iterations int
	Salt       string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("DES_SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("DES_SERVER_PORT", 8080),
		},
		Cipher: CipherConfig{
			Mode:     strings.ToLower(getEnv("DES_MODE", "cbc")),
			Padding:  strings.ToLower(getEnv("DES_PADDING", "pkcs7")),
			Parallel: getEnvBool("DES_PARALLEL", false),
			Charset:  getEnv("DES_CHARSET", "utf-8"),
		},
		KDF: KDFConfig{
			Iterations: getEnvInt("DES_PBKDF2_ITERATIONS", 10000),
			Salt:       getEnv("DES_PBKDF2_SALT", "desref"),
		},
	}
}

// Addr returns the listen address of the gateway
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`
Server: %s
Cipher: mode=%s padding=%s parallel=%v charset=%s
PBKDF2: iterations=%d salt=***`,
		c.Addr(),
		c.Cipher.Mode, c.Cipher.Padding, c.Cipher.Parallel, c.Cipher.Charset,
		c.KDF.Iterations,
	)
}
