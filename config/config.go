package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/libratrack/lms/pkg/kafka"
	"github.com/libratrack/lms/pkg/logger"
	"github.com/libratrack/lms/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LMS_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LMS_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type Notifier struct {
	// ScanInterval is how often the reminder and overdue scans run.
	ScanInterval time.Duration `yaml:"scanInterval" envconfig:"NOTIFIER_SCAN_INTERVAL" default:"1h"`
}

type Reports struct {
	// Dir is where generated CSV artifacts are written.
	Dir string `yaml:"dir" envconfig:"REPORTS_DIR" default:"./reports"`
}

type Config struct {
	Server   HTTPServer `yaml:"server"`
	Database postgres.Config
	Kafka    kafka.Config
	Notifier Notifier
	Reports  Reports
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
