package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/ask-relay/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use: "lambda",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeLambda)

			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}
			handlerFn, err := rt.LambdaHandler()
			if err != nil {
				return err
			}

			logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
			lambda.StartWithOptions(handlerFn,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}
