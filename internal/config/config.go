// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

// Runtime modes.
const (
	ModeService = "service"
	ModeLambda  = "lambda"
)

const defaultTemperature = 0.6

// FileEnv names the environment variable holding the configuration file path.
const FileEnv = "ASK_RELAY_CONFIG"

var (
	// Global is a struct that contains the global configuration.
	Global global
	// OpenAI is a struct that contains the configuration for the completion API.
	OpenAI openAI
	// DingTalk is a struct that contains the configuration for the group robot webhook.
	DingTalk dingTalk
	// Credentials is a struct that selects where the relay credentials are read from.
	Credentials credentials
	// Relay is a struct that contains the configuration for inbound requests.
	Relay relay
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type openAI struct {
	APIKey       string        `yaml:"apiKey,omitempty"`
	BaseURL      string        `yaml:"baseURL,omitempty" default:"https://api.openai.com/v1"`
	Model        string        `yaml:"model,omitempty" default:"gpt-4o-mini"`
	SystemPrompt string        `yaml:"systemPrompt,omitempty" default:"You are a helpful assistant for a DingTalk group."`
	// Temperature defaults to 0.6 unless set, including an explicit 0.
	Temperature  float64       `yaml:"temperature,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty" default:"30s"`

	temperatureSet bool
}

// UnmarshalYAML records whether temperature was present, so an explicit 0 survives SetDefaults.
func (o *openAI) UnmarshalYAML(node *yaml.Node) error {
	type plain openAI
	if err := node.Decode((*plain)(o)); err != nil {
		return err
	}
	var present struct {
		Temperature *float64 `yaml:"temperature"`
	}
	if err := node.Decode(&present); err != nil {
		return err
	}
	o.temperatureSet = present.Temperature != nil
	return nil
}

type dingTalk struct {
	Webhook string        `yaml:"webhook,omitempty"`
	Secret  string        `yaml:"secret,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"10s"`
}

type credentials struct {
	// Source is either "env" or "ssm".
	Source string `yaml:"source,omitempty" default:"env"`
	// SSMKey is the SecureString parameter holding the credentials document.
	SSMKey string `yaml:"ssmKey,omitempty" default:"ask-relay-credentials"`
}

type relay struct {
	// InboundSecret enables X-Hub-Signature-256 verification when set.
	InboundSecret   string `yaml:"inboundSecret,omitempty"`
	MaxPromptLength int    `yaml:"maxPromptLength,omitempty" default:"4000"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"60s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	if !OpenAI.temperatureSet && OpenAI.Temperature == 0 {
		OpenAI.Temperature = defaultTemperature
	}
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&OpenAI),
		defaults.Set(&DingTalk),
		defaults.Set(&Credentials),
		defaults.Set(&Relay),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// FilePath returns the configuration file path.
func FilePath() string {
	if path, found := os.LookupEnv(FileEnv); found {
		return path
	}
	return "config.yaml"
}

// LoadFromFile loads the configuration from a file. A missing file is not an error.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global      global      `yaml:"global,omitempty"`
		OpenAI      openAI      `yaml:"openai,omitempty"`
		DingTalk    dingTalk    `yaml:"dingtalk,omitempty"`
		Credentials credentials `yaml:"credentials,omitempty"`
		Relay       relay       `yaml:"relay,omitempty"`
		Service     service     `yaml:"service,omitempty"`
		Lambda      lambda      `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	OpenAI = a.OpenAI
	DingTalk = a.DingTalk
	Credentials = a.Credentials
	Relay = a.Relay
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
