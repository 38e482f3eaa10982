package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archscape/pkg/buildinfo"
	"github.com/matzehuels/archscape/pkg/observability"
	"github.com/matzehuels/archscape/pkg/pipeline"
	"github.com/matzehuels/archscape/pkg/render"
)

// exportOpts holds the flags shared by the root command and export.
// Unset flags fall back to archscape.toml.
type exportOpts struct {
	output    string
	formats   string
	hcl       bool
	noCache   bool
	noPublish bool
	force     bool
	refresh   bool
}

// RootCommand creates the root cobra command with all subcommands registered.
// Without a subcommand it runs export.
func (c *CLI) RootCommand() *cobra.Command {
	var opts exportOpts
	root := &cobra.Command{
		Use:   appName,
		Short: "archscape renders and publishes the Coding Contest architecture",
		Long: `archscape builds the architecture model of the Coding Contest Platform,
derives its system landscape, container and deployment views, renders them
with Graphviz and publishes the workspace to the configured targets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			observability.Install(observability.NewLogHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd, opts)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./archscape.toml if present)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	addExportFlags(root, &opts)

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.viewsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// exportCommand is the explicit form of running archscape without arguments.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render all views, write the output directory and publish",
		Long: `Render all views, write the output directory and publish.

The output directory receives workspace.json, optionally workspace.hcl, and
one file per view and format, named <view key>.<format>. Rendered views are
cached by their Graphviz source; publishers are skipped while the workspace
document is unchanged unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd, opts)
		},
	}
	addExportFlags(cmd, &opts)
	return cmd
}

func addExportFlags(cmd *cobra.Command, opts *exportOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config, \"out\")")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.hcl, "hcl", false, "also write workspace.hcl")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render views even when cached")
	cmd.Flags().BoolVar(&opts.noPublish, "no-publish", false, "skip configured publishers")
	cmd.Flags().BoolVar(&opts.force, "force", false, "publish even when the workspace is unchanged")
}

func (c *CLI) runExport(ctx context.Context, cmd *cobra.Command, opts exportOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := pipeline.Options{
		Render:  cfg.RenderOptions(),
		Refresh: opts.refresh,
		HCL:     cfg.Output.HCL || opts.hcl,
		Force:   opts.force,
		Logger:  loggerFromContext(ctx),
	}
	if popts.Formats, err = cfg.Formats(); err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		if popts.Formats, err = parseFormats(opts.formats); err != nil {
			return err
		}
	}
	popts.OutputDir = cfg.Output.Dir
	if opts.output != "" {
		popts.OutputDir = opts.output
	}
	if !opts.noPublish {
		popts.Publishers = cfg.Publishers()
	}

	ws, err := c.buildWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %d views...", len(ws.Views.Keys())))
	result, err := runner.Execute(ctx, ws, popts)
	if err != nil {
		spin.Fail("Export failed")
		return err
	}
	spin.Stop()

	printSuccess("Exported %s", StyleHighlight.Render(ws.Name))
	printStats(result.Stats.Views, result.Stats.Artifacts, result.CacheInfo.RenderHit())
	if popts.OutputDir != "" {
		printFile(filepath.Join(popts.OutputDir, "workspace.json"))
		if result.HCL != nil {
			printFile(filepath.Join(popts.OutputDir, "workspace.hcl"))
		}
		names := make([]string, 0, len(result.Artifacts))
		for name := range result.Artifacts {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			printFile(filepath.Join(popts.OutputDir, name))
		}
	}
	for _, name := range result.CacheInfo.Published {
		printSuccess("Published to %s", name)
	}
	for _, name := range result.CacheInfo.Skipped {
		printInfo("Skipped %s %s", name, StyleDim.Render("(unchanged)"))
	}
	if len(popts.Publishers) == 0 && !opts.noPublish {
		printNextStep("Browse the views", appName+" browse")
	}
	return nil
}

// parseFormats parses a comma-separated format string.
func parseFormats(s string) ([]render.Format, error) {
	if s == "" {
		return pipeline.DefaultFormats, nil
	}
	var out []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
