package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/config"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Room      RoomConfig
	Snapshot  SnapshotConfig
	Redis     RedisConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type RoomConfig struct {
	GracePeriod   time.Duration `mapstructure:"grace_period"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
	MaxIdle       time.Duration `mapstructure:"max_idle"`
}

type SnapshotConfig struct {
	Backend       string        // "memory" or "redis"
	MaxAge        time.Duration `mapstructure:"max_age"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 1048576)
	v.SetDefault("room.grace_period", "60s")
	v.SetDefault("room.prune_interval", "5s")
	v.SetDefault("room.max_idle", "1h")
	v.SetDefault("snapshot.backend", "memory")
	v.SetDefault("snapshot.max_age", "24h")
	v.SetDefault("snapshot.sweep_interval", "1h")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "canva-server")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("snapshot.backend", "SNAPSHOT_BACKEND")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Viper unmarshals durations from strings unreliably; parse explicitly.
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Room.GracePeriod = parseDuration(v, "room.grace_period", 60*time.Second)
	cfg.Room.PruneInterval = parseDuration(v, "room.prune_interval", 5*time.Second)
	cfg.Room.MaxIdle = parseDuration(v, "room.max_idle", time.Hour)
	cfg.Snapshot.MaxAge = parseDuration(v, "snapshot.max_age", 24*time.Hour)
	cfg.Snapshot.SweepInterval = parseDuration(v, "snapshot.sweep_interval", time.Hour)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return defaultVal
	}
	return d
}
