// Package cmd provides the entrypoint for the ask-relay cli.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/isometry/ask-relay/internal/config"
	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = helpers.NewNoopLogger()

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	// Count turns an int flag into a repeatable counter (-vvv).
	Count  bool
	Hidden bool
}

// New returns the root command for the ask-relay.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ask-relay",
		Short:        "Relay prompts to a chat-completion API and post the answers to a DingTalk group",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.Global.Mode = strings.ToLower(strings.TrimSpace(config.Global.Mode))
			logger = helpers.NewLogger(os.Stdout, config.Global.Logging.Verbosity, config.Global.Logging.CallerTrace).
				With("mode", config.Global.Mode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return cmdService().RunE(cmd, args)
			case config.ModeLambda:
				return cmdLambda().RunE(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Configuration loading & defaults
	if err := errors.Join(
		config.LoadFromFile(config.FilePath()),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapInt)
	bindEnvMap(cmd, envMapFloat)
	bindEnvMap(cmd, envMapDuration)
}
