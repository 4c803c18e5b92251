package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server Server `yaml:"server"`
}

type Server struct {
	Addr       string `yaml:"addr"`
	SqlitePath string `yaml:"sqlitePath"`
	UploadDir  string `yaml:"uploadDir"`
	StaticDir  string `yaml:"staticDir"`

	SessionBackend string `yaml:"sessionBackend"` // memory, redis, memcached
	SessionTTL     string `yaml:"sessionTTL"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`

	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`

	// ---
	SessionDuration time.Duration
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":3000"
	}
	if config.Server.SqlitePath == "" {
		config.Server.SqlitePath = "database.db"
	}
	if config.Server.UploadDir == "" {
		config.Server.UploadDir = "uploads"
	}
	if config.Server.StaticDir == "" {
		config.Server.StaticDir = "public"
	}
	if config.Server.SessionBackend == "" {
		config.Server.SessionBackend = "memory"
	}

	config.Server.SessionDuration = 24 * time.Hour
	if config.Server.SessionTTL != "" {
		ttl, err := time.ParseDuration(config.Server.SessionTTL)
		if err != nil {
			return Config{}, err
		}
		config.Server.SessionDuration = ttl
	}

	return config, nil
}
