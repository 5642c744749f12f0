// Copyright 2025 Verdict Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-verdict/verdict/pkg/cache"
	"github.com/go-verdict/verdict/pkg/database"
	httpx "github.com/go-verdict/verdict/pkg/http"
	"github.com/go-verdict/verdict/pkg/log"
)

// NotifyConfig 出站通知通道配置
type NotifyConfig struct {
	// BaseURL is the public origin used to build reviewer feedback links
	BaseURL string `mapstructure:"baseUrl"`
	Email   EmailConfig
	Webhook WebhookConfig
}

type EmailConfig struct {
	Enabled   bool
	SMTPHost  string `mapstructure:"smtpHost"`
	SMTPPort  int    `mapstructure:"smtpPort"`
	FromEmail string `mapstructure:"fromEmail"`
	Username  string
	Password  string
}

type WebhookConfig struct {
	Enabled bool
	URL     string `mapstructure:"url"`
	Timeout int
}

// VotingConfig average 机制的评分阈值
type VotingConfig struct {
	HighThreshold float64 `mapstructure:"highThreshold"`
	LowThreshold  float64 `mapstructure:"lowThreshold"`
}

// ReminderConfig 催办扫描配置
type ReminderConfig struct {
	// Secret authenticates the external scheduler trigger endpoint
	Secret string
	// CronSpec drives the optional in-process sweep; empty disables it
	CronSpec string `mapstructure:"cronSpec"`
	// LookaheadDays: committees with deadline within this window get reminders
	LookaheadDays int `mapstructure:"lookaheadDays"`
	// MaxResendsPerDay bounds token reissues per reviewer per day
	MaxResendsPerDay int `mapstructure:"maxResendsPerDay"`
}

// QueueConfig asynq 通知投递队列配置
type QueueConfig struct {
	Concurrency int
	Queue       string
}

type AppConfig struct {
	Log      log.Conf
	Http     httpx.Http
	Database database.Database
	Redis    cache.Redis
	Queue    QueueConfig
	Notify   NotifyConfig
	Voting   VotingConfig
	Reminder ReminderConfig
}

// SetDefaults 填充缺省值
func (c *AppConfig) SetDefaults() {
	if c.Voting.HighThreshold == 0 {
		c.Voting.HighThreshold = 7.0
	}
	if c.Voting.LowThreshold == 0 {
		c.Voting.LowThreshold = 4.0
	}
	if c.Reminder.LookaheadDays == 0 {
		c.Reminder.LookaheadDays = 2
	}
	if c.Reminder.MaxResendsPerDay == 0 {
		c.Reminder.MaxResendsPerDay = 3
	}
	if c.Queue.Concurrency == 0 {
		c.Queue.Concurrency = 5
	}
	if c.Queue.Queue == "" {
		c.Queue.Queue = "notifications"
	}
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load config file
func LoadConfigFile(confDir string) (AppConfig, error) {

	config := viper.New()
	config.SetConfigFile(confDir)
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re-analyze the configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
		cfg.SetDefaults()
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	cfg.SetDefaults()
	log.Infow("config file loaded",
		"path", confDir,
	)

	return cfg, nil
}
