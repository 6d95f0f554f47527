// Package packlist wires the command line interface: one cobra command
// per library operation, global flags for root, format, and color, and
// a topic-based help system served from embedded files.
package packlist

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/packlist/packlist/internal/version"
	"github.com/packlist/packlist/pkg/cobrax/topics"
	"github.com/packlist/packlist/pkg/commands/archive"
	"github.com/packlist/packlist/pkg/commands/check"
	"github.com/packlist/packlist/pkg/commands/explain"
	"github.com/packlist/packlist/pkg/commands/export"
	"github.com/packlist/packlist/pkg/commands/initialize"
	"github.com/packlist/packlist/pkg/commands/resolve"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/output"
	"github.com/packlist/packlist/pkg/paths"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/style"
)

//go:embed topics
var topicFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "packlist",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringP("root", "r", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringP("manifest", "m", "", MsgFlagManifest)
	rootCmd.PersistentFlags().StringP("format", "f", "", MsgFlagFormat)
	rootCmd.PersistentFlags().String("color", "", MsgFlagColor)
	rootCmd.PersistentFlags().String("match-mode", "", MsgFlagMatchMode)
	rootCmd.PersistentFlags().Bool("dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().Bool("force", false, MsgFlagForce)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help from the embedded files
	if sub, err := fs.Sub(topicFiles, "topics"); err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			// Always use Glamour renderer for markdown files
			Renderer: topics.NewGlamourRenderer(),
		}
		if err := topics.Initialize(rootCmd, sub, opts); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize help topics")
		}
	}

	return rootCmd
}

// cmdEnv carries everything a command needs from global flags and the
// project configuration.
type cmdEnv struct {
	root     string
	manifest string
	cfg      *config.Config
	format   output.Format
}

// commandEnv resolves the project root, loads its configuration, and
// settles the output format and color policy. Flags win over
// configuration.
func commandEnv(cmd *cobra.Command) (*cmdEnv, error) {
	flags := cmd.Root().PersistentFlags()
	rootFlag, _ := flags.GetString("root")
	manifestFlag, _ := flags.GetString("manifest")
	formatFlag, _ := flags.GetString("format")
	colorFlag, _ := flags.GetString("color")
	matchModeFlag, _ := flags.GetString("match-mode")

	p, err := paths.New(rootFlag)
	if err != nil {
		return nil, err
	}
	root := p.ProjectRoot()
	if p.UsedFallback() {
		log.Debug().Str("root", root).Msg("Using working directory as project root")
	}

	overrides := map[string]interface{}{}
	if matchModeFlag != "" {
		overrides["match.mode"] = matchModeFlag
	}
	cfg, err := config.LoadWithOverrides(root, overrides)
	if err != nil {
		return nil, err
	}

	formatName := formatFlag
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	colorMode := colorFlag
	if colorMode == "" {
		colorMode = cfg.Output.Color
	}
	style.Enable(colorMode, os.Stdout)

	return &cmdEnv{root: root, manifest: manifestFlag, cfg: cfg, format: format}, nil
}

// render writes the result to stdout in the selected format.
func (e *cmdEnv) render(result any) error {
	r, err := output.NewRenderer(e.format, os.Stdout)
	if err != nil {
		return err
	}
	return r.RenderResult(result)
}

// printWarnings writes resolution warnings to stderr, keeping stdout
// clean for the result itself.
func printWarnings(warnings []resolver.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s line %d: %s: %s\n",
			style.WarningIndicator, w.Line, w.Rule, w.Message)
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resolve",
		Short:   MsgResolveShort,
		Long:    MsgResolveLong,
		Example: MsgResolveExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := commandEnv(cmd)
			if err != nil {
				return err
			}

			result, err := resolve.Resolve(resolve.Options{
				Root:         env.root,
				ManifestPath: env.manifest,
				Config:       env.cfg,
			})
			if err != nil {
				return err
			}

			printWarnings(result.Warnings)
			return env.render(result)
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		Example: MsgCheckExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := commandEnv(cmd)
			if err != nil {
				return err
			}

			report, err := check.Check(check.Options{
				Root:         env.root,
				ManifestPath: env.manifest,
				Config:       env.cfg,
			})
			if err != nil {
				// CI consumers reading JUnit need well-formed XML even
				// when the manifest does not parse
				if env.format == output.FormatJUnit {
					if r, rerr := output.NewRenderer(output.FormatJUnit, os.Stdout); rerr == nil {
						_ = r.RenderError(err)
					}
				}
				return err
			}

			if err := env.render(report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf(MsgErrCheckProblems, report.Problems)
			}
			return nil
		},
	}
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "explain <path>...",
		Short:   MsgExplainShort,
		Long:    MsgExplainLong,
		Example: MsgExplainExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := commandEnv(cmd)
			if err != nil {
				return err
			}

			report, err := explain.Explain(explain.Options{
				Root:         env.root,
				ManifestPath: env.manifest,
				Config:       env.cfg,
				Paths:        args,
			})
			if err != nil {
				return err
			}

			return env.render(report)
		},
	}
}

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "archive",
		Short:   MsgArchiveShort,
		Long:    MsgArchiveLong,
		Example: MsgArchiveExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := commandEnv(cmd)
			if err != nil {
				return err
			}

			outPath, _ := cmd.Flags().GetString("output")
			formatName, _ := cmd.Flags().GetString("type")
			prefix, _ := cmd.Flags().GetString("prefix")
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			result, err := archive.Archive(archive.Options{
				Root:         env.root,
				ManifestPath: env.manifest,
				Config:       env.cfg,
				Output:       outPath,
				Format:       formatName,
				Prefix:       prefix,
				DryRun:       dryRun,
			})
			if err != nil {
				return err
			}

			printWarnings(result.Warnings)
			return env.render(result)
		},
	}

	cmd.Flags().StringP("output", "o", "", MsgFlagOutput)
	cmd.Flags().StringP("type", "t", "", MsgFlagType)
	cmd.Flags().String("prefix", "", MsgFlagPrefix)

	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "export <dest>",
		Short:   MsgExportShort,
		Long:    MsgExportLong,
		Example: MsgExportExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := commandEnv(cmd)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			force, _ := cmd.Root().PersistentFlags().GetBool("force")

			result, err := export.Export(export.Options{
				Root:         env.root,
				ManifestPath: env.manifest,
				Config:       env.cfg,
				Dest:         args[0],
				DryRun:       dryRun,
				Force:        force,
			})
			if err != nil {
				return err
			}

			printWarnings(result.Warnings)
			return env.render(result)
		},
	}
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := commandEnv(cmd)
			if err != nil {
				return err
			}

			withConfig, _ := cmd.Flags().GetBool("with-config")
			force, _ := cmd.Root().PersistentFlags().GetBool("force")

			result, err := initialize.Init(initialize.Options{
				Root:       env.root,
				Config:     env.cfg,
				WithConfig: withConfig,
				Force:      force,
			})
			if err != nil {
				return err
			}

			return env.render(result)
		},
	}

	cmd.Flags().Bool("with-config", false, MsgFlagWithConfig)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics"
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
