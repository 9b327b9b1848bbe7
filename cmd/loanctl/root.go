package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"loanassist/internal/platform/config"
	"loanassist/internal/platform/logger"
)

type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "loanctl",
		Short: "Loan approval decisions from the command line",
		Long: `loanctl runs loan applications through the same eligibility rules and
scoring model as the loanassist server, and prints the rule battery and
the application schema.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initConfig,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(c.decideCmd())
	root.AddCommand(c.rulesCmd())
	root.AddCommand(c.schemaCmd())
	return root
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	opts := []config.Option{config.WithViper(c.v)}
	if c.cfgFile != "" {
		opts = append(opts, config.WithConfigFile(c.cfgFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	// Logs go to stderr so stdout stays machine readable.
	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, "text")
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = log
	return nil
}
