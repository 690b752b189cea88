package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-datepicker/internal/config"
	"github.com/tartampluch/go-datepicker/internal/console"
	"github.com/tartampluch/go-datepicker/internal/holidays"
	"github.com/tartampluch/go-datepicker/internal/picker"
	"github.com/tartampluch/go-datepicker/internal/server"
)

// app holds the parsed flags and the resources opened by the root command.
type app struct {
	configPath   string
	debug        bool
	showVersion  bool
	oneTap       bool
	locale       string
	firstWeekday int
	blockedICS   string
	year         int
	month        int
	port         string

	// loader is replaced in tests.
	loader    *holidays.Loader
	logCloser io.Closer
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CmdRoot,
		Short:         config.DescRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if a.showVersion {
				return
			}
			a.logCloser = installLogger(cmd.ErrOrStderr(), a.debug)
			logStartupInfo()
		},
	}
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		if a.showVersion {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, config.FlagConfig, config.DefaultConfigPath(), config.DescConfig)
	pf.BoolVar(&a.debug, config.FlagDebug, false, config.DescDebug)
	pf.BoolVar(&a.oneTap, config.FlagOneTap, false, config.DescOneTap)
	pf.StringVar(&a.locale, config.FlagLocale, config.DefaultLocale, config.DescLocale)
	pf.IntVar(&a.firstWeekday, config.FlagWeekday, config.DefaultFirstWeekday, config.DescWeekday)
	pf.StringVar(&a.blockedICS, config.FlagBlockICS, "", config.DescBlockICS)
	root.Flags().BoolVar(&a.showVersion, config.FlagVersion, false, config.DescVersion)

	root.AddCommand(newDemoCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdDemo,
		Short: config.DescDemo,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := a.buildPicker(cmd)
			if err != nil {
				return err
			}
			view, err := p.Start(picker.StartOptions{Year: a.year, Month: time.Month(a.month)})
			if err != nil {
				return err
			}
			_, err = console.New(p, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context(), view)
			return err
		},
	}
	cmd.Flags().IntVar(&a.year, config.FlagYear, 0, config.DescYear)
	cmd.Flags().IntVar(&a.month, config.FlagMonth, 0, config.DescMonth)
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.DescServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, fc, err := a.buildPicker(cmd)
			if err != nil {
				return err
			}
			port := config.DefaultPort
			if fc.Server.Port != nil {
				port = *fc.Server.Port
			}
			if cmd.Flags().Changed(config.FlagPort) {
				port = a.port
			}
			return server.NewPickerServer(p, port).Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&a.port, config.FlagPort, config.DefaultPort, config.DescPort)
	return cmd
}

// buildPicker merges the configuration file, explicit flags and the blocked
// days feed into a Picker. Flags win over the file.
func (a *app) buildPicker(cmd *cobra.Command) (*picker.Picker, config.FileConfig, error) {
	fc, err := config.LoadFile(a.configPath)
	if err != nil {
		return nil, fc, err
	}
	slog.Debug(config.MsgConfigLoaded,
		config.LogKeyComponent, config.CompConfig,
		config.LogKeyFile, a.configPath,
	)

	opts, err := picker.OptionsFromFile(fc)
	if err != nil {
		return nil, fc, err
	}
	flags := cmd.Flags()
	if flags.Changed(config.FlagOneTap) {
		opts.OneTap = a.oneTap
	}
	if flags.Changed(config.FlagLocale) {
		opts.Locale = a.locale
	}
	if flags.Changed(config.FlagWeekday) {
		opts.FirstWeekday = a.firstWeekday
	}

	days, err := a.blockedDays(cmd.Context(), fc.Blocked)
	if err != nil {
		return nil, fc, err
	}
	opts.BlockedDays = append(opts.BlockedDays, days...)

	p, err := picker.New(opts, nil, nil)
	return p, fc, err
}

// blockedDays loads the iCalendar feed named by --blocked-ics or the file.
func (a *app) blockedDays(ctx context.Context, bf config.BlockedFile) ([]time.Time, error) {
	location := a.blockedICS
	if location == "" && bf.Source != nil {
		location = *bf.Source
	}
	if location == "" {
		return nil, nil
	}

	src := holidays.SourceFor(location)
	if bf.User != nil {
		src.User = *bf.User
	}
	if bf.Pass != nil {
		src.Pass = *bf.Pass
	}

	loader := a.loader
	if loader == nil {
		loader = &holidays.Loader{}
	}
	return loader.Load(ctx, src)
}
