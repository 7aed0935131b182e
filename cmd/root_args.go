package cmd

import (
	"time"

	"github.com/isometry/ask-relay/internal/config"
	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/isometry/ask-relay/internal/relay"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.OpenAI.APIKey: {
		Name:        "openai-api-key",
		Description: "The API key used to authenticate against the chat-completion API",
		Env:         helpers.Ptr(relay.EnvOpenAIAPIKey),
		Hidden:      true,
	},
	&config.OpenAI.BaseURL: {
		Name:        "openai-base-url",
		Description: "The base URL of the OpenAI-compatible chat-completion API",
	},
	&config.OpenAI.Model: {
		Name:        "openai-model",
		Description: "The chat-completion model",
	},
	&config.OpenAI.SystemPrompt: {
		Name:        "openai-system-prompt",
		Description: "The system instruction sent ahead of every prompt",
	},
	&config.DingTalk.Webhook: {
		Name:        "dingtalk-webhook",
		Description: "The DingTalk group robot webhook URL, including its access_token",
		Env:         helpers.Ptr(relay.EnvDingTalkWebhook),
		Hidden:      true,
	},
	&config.DingTalk.Secret: {
		Name:        "dingtalk-secret",
		Description: "The DingTalk robot signing secret",
		Env:         helpers.Ptr(relay.EnvDingTalkSecret),
		Hidden:      true,
	},
	&config.Credentials.Source: {
		Name:        "credentials-source",
		Description: "Credentials provider. Supported values are 'env' and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.Credentials.SSMKey: {
		Name:        "credentials-ssm-key",
		Description: "The SSM parameter key holding the JSON credentials document",
	},
	&config.Relay.InboundSecret: {
		Name:        "inbound-secret",
		Description: "The secret used to validate the X-Hub-Signature-256 header of inbound requests. If not specified, no validation is performed",
		Hidden:      true,
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapInt = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
		Count:       true,
	},
	&config.Relay.MaxPromptLength: {
		Name:        "prompt-max-length",
		Description: "The maximum prompt length in characters; longer prompts are cut",
	},
}

var envMapFloat = map[*float64]boundEnvVar[float64]{
	&config.OpenAI.Temperature: {
		Name:        "openai-temperature",
		Description: "The sampling temperature",
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.OpenAI.Timeout: {
		Name:        "openai-timeout",
		Description: "The timeout of a chat-completion call",
	},
	&config.DingTalk.Timeout: {
		Name:        "dingtalk-timeout",
		Description: "The timeout of a webhook delivery",
	},
}
