package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pinmap/internal/locations/client"
	"pinmap/internal/maps"
	"pinmap/internal/pagination"
	"pinmap/internal/session"
	"pinmap/internal/store"
	"pinmap/platform/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const tokenSubject = "pinmap-cli"

// cli carries the dependencies built by the root command for its subcommands.
type cli struct {
	v       *viper.Viper
	cfgFile string

	cfg      Config
	log      *logger.Logger
	store    *store.Store
	resolver *maps.Resolver
	session  *session.Session
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree with fresh configuration state.
func NewRootCommand() *cobra.Command {
	c := &cli{v: newViper()}

	root := &cobra.Command{
		Use:               "pinmap",
		Short:             "Drop pins, resolve their addresses and browse saved locations",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.session != nil {
				c.session.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default ~/.config/pinmap/config.yaml)")
	flags.String("api-url", "", "locations API base URL (default http://localhost:3000)")
	flags.Duration("api-timeout", 0, "locations API request timeout (default 10s)")
	flags.String("geocoder", "", "geocoding provider: nominatim or google")
	flags.BoolP("verbose", "v", false, "log requests and failures to stderr")
	_ = c.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = c.v.BindPFlag("timeout", flags.Lookup("api-timeout"))
	_ = c.v.BindPFlag("geocoder", flags.Lookup("geocoder"))
	_ = c.v.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(c.listCmd(), c.dropCmd(), c.saveCmd(), c.reverseCmd())
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger.NewCLI(cmd.ErrOrStderr(), cfg.Verbose)
	cmd.SetContext(logger.ContextWithSessionID(cmd.Context(), uuid.NewString()))

	opts := []client.Option{client.WithTimeout(cfg.Timeout)}
	if cfg.TokenSecret != "" {
		opts = append(opts, client.WithTokenSource(client.SignedTokens(cfg.TokenSecret, tokenSubject)))
	}
	c.store = store.New(client.New(cfg.APIURL, c.log, opts...), c.log)

	provider, err := maps.NewProvider(cfg, c.log)
	if err != nil {
		return err
	}
	c.resolver = maps.NewResolver(provider, c.log)

	paginator := pagination.New(cfg.PageSize, pagination.WithMaxButtons(cfg.MaxButtons))
	c.session = session.New(c.store, paginator, c.resolver)
	return nil
}
