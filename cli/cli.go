package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/frame"
	"github.com/silyecsabi/weather-forecast/loader"
	"github.com/silyecsabi/weather-forecast/server"
)

// Builder wires a loader from the resolved configuration.
type Builder func(cfg *config.Config, logger *zap.Logger) (*loader.Loader, error)

type app struct {
	defaults []byte
	build    Builder

	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	loader     *loader.Loader
}

func New(defaults []byte, build Builder) (*cobra.Command, error) {
	a := &app{defaults: defaults, build: build}

	var (
		from, to string
		format   string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:           "weather [COUNTRY_CODE CITY]",
		Args:          cobra.MatchAll(cobra.RangeArgs(0, 2), evenArgs),
		Short:         "Load historical daily temperatures for a city",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := a.cfg.Request
			if len(args) == 2 {
				req.Country, req.City = args[0], args[1]
			}
			if from != "" {
				req.From = from
			}
			if to != "" {
				req.To = to
			}

			cfg, err := requestConfig(req)
			if err != nil {
				return err
			}

			var data *frame.Frame
			if raw {
				data, err = a.loader.RawWeatherData(cmd.Context(), cfg)
			} else {
				data, err = a.loader.WeatherData(cmd.Context(), cfg)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "table" {
				fmt.Fprintf(out, "LOCATION\t %s, %s (%s)\n", cfg.CityName(), cfg.CountryName(), cfg.CountryCode())
				fmt.Fprintf(out, "PERIOD\t\t %s - %s\n\n",
					cfg.DateFrom().Format(frame.DateLayout),
					cfg.DateTo().Format(frame.DateLayout),
				)
			}

			return write(out, data, format)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config overriding the defaults")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, csv or json")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the provider table without formatting")

	cmd.AddCommand(a.serveCommand())

	return cmd, nil
}

func (a *app) init() error {
	cfg, err := config.Load(a.defaults, a.configPath)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}

	l, err := a.build(cfg, logger)
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.loader = cfg, logger, l
	return nil
}

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve the data loader over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.cfg.Server, a.loader, a.logger)

			errs := make(chan error, 1)
			go func() {
				addr := ":" + a.cfg.Server.Port
				a.logger.Info("starting server", zap.String("address", addr))
				errs <- srv.Listen(addr)
			}()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return srv.ShutdownWithContext(shutdownCtx)
		},
	}
}

func evenArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("expected COUNTRY_CODE and CITY, got only %q", args[0])
	}
	return nil
}

func requestConfig(req config.Request) (loader.Config, error) {
	from, err := time.Parse(frame.DateLayout, req.From)
	if err != nil {
		return loader.Config{}, fmt.Errorf("from: %w", err)
	}
	to, err := time.Parse(frame.DateLayout, req.To)
	if err != nil {
		return loader.Config{}, fmt.Errorf("to: %w", err)
	}
	return loader.NewConfig(req.Country, req.City, from, to)
}

func write(w io.Writer, data *frame.Frame, format string) error {
	if data == nil {
		return errors.New("provider returned no data")
	}

	switch format {
	case "table", "":
		return data.WriteTable(w)
	case "csv":
		return data.WriteCSV(w)
	case "json":
		out, err := data.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
