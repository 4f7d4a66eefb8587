package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rcpro-configurator/internal/config"
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"addr":         "server.addr",
	"pricing-url":  "pricing.url",
	"timeout":      "pricing.timeout",
	"catalog":      "quote.catalog",
	"stale-policy": "quote.stale_policy",
	"debug":        "log.debug",
	"log-file":     "log.file",
	"telemetry":    "telemetry.enabled",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		v       *viper.Viper
	)

	root := &cobra.Command{
		Use:          "rcpro",
		Short:        "Professional liability insurance quote configurator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(dotEnvFiles...); err != nil {
				return err
			}

			var err error
			v, err = config.New(cfgFile)
			if err != nil {
				return err
			}
			return bindFlags(v, cmd.Flags())
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./rcpro.yaml)")
	root.PersistentFlags().String("pricing-url", "", "pricing API endpoint")
	root.PersistentFlags().Duration("timeout", 0, "pricing request timeout, 0 for none")
	root.PersistentFlags().String("catalog", "", "YAML cover catalog replacing the built-in one")
	root.PersistentFlags().String("stale-policy", "", `"latest-request" or "last-response"`)
	root.PersistentFlags().Bool("debug", false, "development logging")

	loadConfig := func() (config.Config, error) {
		return config.Load(v)
	}

	serve := serveCmd(loadConfig)
	root.AddCommand(serve, tuiCmd(loadConfig), quoteCmd(loadConfig))

	// bare "rcpro" serves the web configurator
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

// bindFlags binds every known flag the running command defines. Only flags
// set explicitly override the file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
