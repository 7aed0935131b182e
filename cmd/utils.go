package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/isometry/ask-relay/internal/config"
	"github.com/isometry/ask-relay/internal/controllers/dingtalk"
	"github.com/isometry/ask-relay/internal/controllers/openai"
	"github.com/isometry/ask-relay/internal/handler"
	"github.com/isometry/ask-relay/internal/relay"
	"github.com/isometry/ask-relay/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replacer = strings.NewReplacer(".", "_", "-", "_")

type argType interface {
	string | bool | int | float64 | time.Duration
}

func envName[T argType](cfg boundEnvVar[T]) string {
	if cfg.Env != nil {
		return *cfg.Env
	}
	return strings.ToUpper(replacer.Replace(cfg.Name))
}

// bindEnvMap registers a persistent flag per entry. The current value of the bound variable is the default,
// overridden by the entry's environment variable when set.
func bindEnvMap[T argType](cmd *cobra.Command, m map[*T]boundEnvVar[T]) {
	for v, cfg := range m {
		env := envName(cfg)
		desc := fmt.Sprintf("[%s] %s", env, cfg.Description)
		_, found := os.LookupEnv(env)

		switch vt := any(v).(type) {
		case *string:
			def := *vt
			if found {
				def = viper.GetString(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().StringVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().StringVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *bool:
			def := *vt
			if found {
				def = viper.GetBool(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().BoolVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().BoolVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *int:
			def := *vt
			if found {
				def = viper.GetInt(env)
			}
			switch {
			case cfg.Count && cfg.Short == nil:
				cmd.PersistentFlags().CountVar(vt, cfg.Name, desc)
			case cfg.Count:
				cmd.PersistentFlags().CountVarP(vt, cfg.Name, *cfg.Short, desc)
			case cfg.Short == nil:
				cmd.PersistentFlags().IntVar(vt, cfg.Name, def, desc)
			default:
				cmd.PersistentFlags().IntVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
			_ = cmd.PersistentFlags().Lookup(cfg.Name).Value.Set(strconv.Itoa(def))
		case *float64:
			def := *vt
			if found {
				def = viper.GetFloat64(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().Float64Var(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().Float64VarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		case *time.Duration:
			def := *vt
			if found {
				def = viper.GetDuration(env)
			}
			if cfg.Short == nil {
				cmd.PersistentFlags().DurationVar(vt, cfg.Name, def, desc)
			} else {
				cmd.PersistentFlags().DurationVarP(vt, cfg.Name, *cfg.Short, def, desc)
			}
		default:
			log.Panicf("command-args parsing error: unhandled default case for type %T", vt)
		}

		_ = viper.BindPFlag(cfg.Name, cmd.PersistentFlags().Lookup(cfg.Name))
		_ = viper.BindEnv(cfg.Name, env)

		if cfg.Hidden {
			_ = cmd.PersistentFlags().MarkHidden(cfg.Name)
		}
	}
}

// newRuntime builds the relay handler from the loaded configuration and wraps it in a runtime.
func newRuntime(ctx context.Context) (*runtime.Runtime, error) {
	logger.Debug("creating relay handler...")
	hdl, err := handler.NewRelayHandler(
		handler.WithContext(ctx),
		handler.WithLogger(logger.With("component", "relay-handler")),
		handler.WithCredentialsSource(config.Credentials.Source),
		handler.WithSSMKey(config.Credentials.SSMKey),
		handler.WithCredentials(relay.Credentials{
			OpenAIAPIKey:    config.OpenAI.APIKey,
			DingTalkWebhook: config.DingTalk.Webhook,
			DingTalkSecret:  config.DingTalk.Secret,
		}),
		handler.WithInboundSecret(config.Relay.InboundSecret),
		handler.WithMaxPromptLength(config.Relay.MaxPromptLength),
		handler.WithCompleter(openai.NewController(
			openai.WithLogger(logger.With("component", "openai-controller")),
			openai.WithBaseURL(config.OpenAI.BaseURL),
			openai.WithModel(config.OpenAI.Model),
			openai.WithSystemPrompt(config.OpenAI.SystemPrompt),
			openai.WithTemperature(float32(config.OpenAI.Temperature)),
			openai.WithTimeout(config.OpenAI.Timeout))),
		handler.WithSender(dingtalk.NewController(
			dingtalk.WithLogger(logger.With("component", "dingtalk-controller")),
			dingtalk.WithTimeout(config.DingTalk.Timeout))),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create relay handler")
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType)), nil
}
