package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Automation struct {
		MaxSubmissionSteps int           `yaml:"max_submission_steps" default:"10"`
		MaxJobsPerSearch   int           `yaml:"max_jobs_per_search" default:"25"`
		DailyLimitDefault  int           `yaml:"daily_limit_default" default:"10"`
		StepTimeout        time.Duration `yaml:"step_timeout" default:"30s"`
		StopTimeout        time.Duration `yaml:"stop_timeout" default:"5s"`
		SessionTTL         time.Duration `yaml:"session_ttl" default:"1h"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"10m"`
		ActionDelayMin     time.Duration `yaml:"action_delay_min" default:"500ms"`
		ActionDelayMax     time.Duration `yaml:"action_delay_max" default:"2s"`
		ActionsPerMinute   int           `yaml:"actions_per_minute" default:"30"`
		ScrollRounds       int           `yaml:"scroll_rounds" default:"3"`
	} `yaml:"automation"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens   int           `yaml:"max_tokens" default:"1024"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"llm"`

	Browser struct {
		UserAgent    string        `yaml:"user_agent"`
		HeadlessMode bool          `yaml:"headless_mode" default:"true"`
		StealthMode  bool          `yaml:"stealth_mode" default:"true"`
		PageTimeout  time.Duration `yaml:"page_timeout" default:"30s"`
		ChromePath   string        `yaml:"chrome_path"`
	} `yaml:"browser"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Automation.MaxSubmissionSteps = 10
	config.Automation.MaxJobsPerSearch = 25
	config.Automation.DailyLimitDefault = 10
	config.Automation.StepTimeout = 30 * time.Second
	config.Automation.StopTimeout = 5 * time.Second
	config.Automation.SessionTTL = 1 * time.Hour
	config.Automation.CleanupInterval = 10 * time.Minute
	config.Automation.ActionDelayMin = 500 * time.Millisecond
	config.Automation.ActionDelayMax = 2 * time.Second
	config.Automation.ActionsPerMinute = 30
	config.Automation.ScrollRounds = 3

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-haiku-20240307"
	config.LLM.MaxTokens = 1024
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 30 * time.Second

	config.Browser.HeadlessMode = true
	config.Browser.StealthMode = true
	config.Browser.PageTimeout = 30 * time.Second
	config.Browser.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if headless := os.Getenv("BROWSER_HEADLESS"); headless != "" {
		c.Browser.HeadlessMode = headless == "true" || headless == "1"
	}

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		c.Browser.ChromePath = chromePath
	}

	if userAgent := os.Getenv("BROWSER_USER_AGENT"); userAgent != "" {
		c.Browser.UserAgent = userAgent
	}

	if maxSteps := os.Getenv("AUTOMATION_MAX_SUBMISSION_STEPS"); maxSteps != "" {
		if steps, err := strconv.Atoi(maxSteps); err == nil {
			c.Automation.MaxSubmissionSteps = steps
		}
	}

	if dailyLimit := os.Getenv("AUTOMATION_DAILY_LIMIT"); dailyLimit != "" {
		if limit, err := strconv.Atoi(dailyLimit); err == nil {
			c.Automation.DailyLimitDefault = limit
		}
	}

	if stopTimeout := os.Getenv("AUTOMATION_STOP_TIMEOUT"); stopTimeout != "" {
		if timeout, err := time.ParseDuration(stopTimeout); err == nil {
			c.Automation.StopTimeout = timeout
		}
	}

	if sessionTTL := os.Getenv("AUTOMATION_SESSION_TTL"); sessionTTL != "" {
		if ttl, err := time.ParseDuration(sessionTTL); err == nil {
			c.Automation.SessionTTL = ttl
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}
}
