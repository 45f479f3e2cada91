package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gamerent/internal/config"
)

func TestInit_UnreachableServer(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host:        "127.0.0.1",
			Port:        1, // nothing listens here
			DialTimeout: 100 * time.Millisecond,
			ReadTimeout: 100 * time.Millisecond,
		},
	}

	err := Init(cfg)
	assert.Error(t, err)
}

func TestHealth_BeforeInit(t *testing.T) {
	Client = nil
	assert.Error(t, Health())
}
