package main

import (
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/shakacode/steward/pkg/lib"
)

// Config carries key/value pairs from the project's .env file. It is loaded
// once per execution; a missing file simply yields an empty config.
type Config struct {
	data map[string]string
}

var loadConfig = sync.OnceValue(func() Config {
	data, err := godotenv.Read(Root().Join(".env").Path())
	if err != nil {
		data = map[string]string{}
	}
	return Config{data: data}
})

// Get looks a key up, with the process environment taking precedence over
// the .env file.
func (c Config) Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v, ok := c.data[key]; ok {
		return v
	}
	return fallback
}

// Env renders the whole config as an environment for spawned commands.
func (c Config) Env() lib.Env {
	return lib.NewEnv(c.data)
}
