// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// RedisAddr is the address (host:port) of the backing Redis store.
	RedisAddr string

	// RedisPassword is the optional password of the backing Redis store.
	RedisPassword string

	// RedisDB selects the Redis logical database.
	RedisDB int

	// CredentialScheme selects how passwords are stored: "bcrypt" (default)
	// or "plaintext" (compatibility with data written by legacy deployments;
	// insecure, see service.PlaintextVerifier).
	CredentialScheme string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.RedisAddr, "r", "127.0.0.1:6379", "redis address")
	flag.StringVar(&options.RedisPassword, "p", "", "redis password")
	flag.IntVar(&options.RedisDB, "db", 0, "redis database number")
	flag.StringVar(&options.CredentialScheme, "creds", "bcrypt", "credential scheme: bcrypt or plaintext")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		options.RedisAddr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		options.RedisPassword = redisPassword
	}

	return options
}
