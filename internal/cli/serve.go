package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoline/internal/api"
	"github.com/matzehuels/chronoline/internal/config"
	"github.com/matzehuels/chronoline/pkg/cache"
	"github.com/matzehuels/chronoline/pkg/dataset/mongo"
	"github.com/matzehuels/chronoline/pkg/dataset/store"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		lf      layoutFlags
		sf      sourceFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve layouts and rendered timelines over HTTP",
		Long: `Serve layouts and rendered timelines over HTTP.

The dataset is read from the file argument, from MongoDB when a URI is
configured, or from the local store. Layout and filter flags set the defaults
a request starts from; query parameters override them per request.

  curl localhost:8080/api/timeline.svg?group=country&hide_empty=1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var defaults pipeline.Options
			lf.apply(cmd, c.Config, &defaults)
			return c.runServe(cmd.Context(), args, sf, defaults, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd)
	sf.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, sf sourceFlags, defaults pipeline.Options, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	if !noCache && c.Config.CacheBackend() == config.CacheRedis {
		runner.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:")
	}

	src, name, closeSource, err := c.serveSource(ctx, args, sf, runner)
	if err != nil {
		return err
	}
	defer closeSource()

	srv, err := api.New(ctx, api.Config{
		Source:   src,
		Name:     name,
		Runner:   runner,
		Defaults: defaults,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	printSuccess("Serving %s", name)
	printKeyValue("listening", StyleLink.Render(serverURL(addr)))
	printKeyValue("persons", fmt.Sprint(len(srv.Dataset().Persons)))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// serverURL turns a listen address such as ":8080" into a browsable URL.
func serverURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/healthz"
}

// serveSource picks the dataset source in the same order as resolveSource,
// but keeps it open so that POST /api/reload can read it again.
func (c *CLI) serveSource(ctx context.Context, args []string, sf sourceFlags, runner *pipeline.Runner) (api.DatasetSource, string, func(), error) {
	if len(args) > 0 {
		return api.FileSource{Runner: runner, Path: args[0]}, args[0], func() {}, nil
	}

	if uri := firstNonEmpty(sf.mongoURI, c.Config.MongoURI()); uri != "" {
		src, err := mongo.Connect(ctx, uri, firstNonEmpty(sf.mongoDB, c.Config.MongoDatabase()))
		if err != nil {
			return nil, "", nil, err
		}
		return src, src.String(), func() { _ = src.Close(context.Background()) }, nil
	}

	path := firstNonEmpty(sf.db, c.Config.SQLitePath())
	st, err := store.Open(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return st, path, func() { _ = st.Close() }, nil
}
