package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archscape/internal/server"
)

// serveCommand serves the workspace over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace and rendered views over HTTP",
		Long: `Serve the workspace and rendered views over HTTP.

Routes:
  /healthz                  liveness
  /workspace.json           workspace document
  /views                    view list
  /views/{key}              view as JSON
  /views/{key}.{format}     view rendered as svg, png, pdf or dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	ws, err := c.buildWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv, err := server.New(ws, runner, cfg.RenderOptions(), loggerFromContext(ctx))
	if err != nil {
		return err
	}
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
	return srv.ListenAndServe(ctx, addr)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
