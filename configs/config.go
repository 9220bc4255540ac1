package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func load() {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
}

func Config(key string) string {
	load()
	return os.Getenv(key)
}

// ConfigDefault returns def when key is unset or empty.
func ConfigDefault(key, def string) string {
	if v := Config(key); v != "" {
		return v
	}
	return def
}

func ConfigInt(key string, def int) int {
	v := Config(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}
