package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/bpscript/internal/app"
	"github.com/vk/bpscript/internal/blueprint"
	"github.com/vk/bpscript/internal/interpreter"
	"golang.org/x/term"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
	nodePacks string
	maxDepth  int
	strict    bool
	store     string
}

// DefaultLogFormat picks text for an interactive terminal and json
// otherwise.
func DefaultLogFormat(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "text"
	}
	return "json"
}

// NewRootCommand builds the bpscript command tree. Command output goes to
// outW; logs and errors go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "bpscript",
		Short: "Run, generate and serve visual-scripting graphs.",
		Long: `bpscript executes visual-scripting graphs, lowers them to Unity C#, and
binds them to a running game over a socket.io message bus.

Graphs are JSON or YAML documents. Node types come from the built-in library
and from HCL node packs given with --node-packs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&g.logFormat, "log-format", DefaultLogFormat(errW), "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&g.nodePacks, "node-packs", "", "Path to an .hcl node pack or a directory of them.")
	pf.IntVar(&g.maxDepth, "max-depth", interpreter.DefaultMaxDepth, "Maximum nested node executions. 0 is unlimited.")
	pf.BoolVar(&g.strict, "strict", false, "Fail on cycles and unresolved required inputs instead of recovering.")
	pf.StringVar(&g.store, "store", app.DefaultStorePath, "Path to the SQLite graph library.")

	root.AddCommand(
		runCmd(g, outW, errW),
		generateCmd(g, outW, errW),
		nodesCmd(g, outW, errW),
		exportCmd(g, outW, errW),
		serveCmd(g, outW, errW),
		storeCmd(g, outW, errW),
	)
	return root
}

// newApp validates the configuration and builds the application. An
// invalid configuration is a usage error.
func newApp(g *globalFlags, cfg app.Config, outW, errW io.Writer) (*app.App, error) {
	cfg.LogLevel = strings.ToLower(g.logLevel)
	cfg.LogFormat = strings.ToLower(g.logFormat)
	cfg.NodePackPath = g.nodePacks
	cfg.MaxDepth = g.maxDepth
	cfg.Strict = g.strict
	cfg.StorePath = g.store

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError("%s", err.Error())
	}
	return app.NewApp(outW, errW, validated), nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError("%s", err.Error())
		}
		return nil
	}
}

func runCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "run <graph>",
		Short: "Execute a graph and print its final variables",
		Long: `Execute a graph from its entry point, or from --entry, and print the final
value of every variable. Delays are honoured in real time. A graph stored in
the library is addressed as store:<id>.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{GraphPath: args[0], EntryPoint: entry}, outW, errW)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "", "Node id to start from instead of the graph's entry point.")
	return cmd
}

func generateCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	var (
		className         string
		output            string
		failOnUnsupported bool
	)
	cmd := &cobra.Command{
		Use:   "generate <graph>",
		Short: "Generate a Unity C# MonoBehaviour from a graph",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{GraphPath: args[0], ClassName: className, OutputPath: output}, outW, errW)
			if err != nil {
				return err
			}
			return a.Generate(cmd.Context(), failOnUnsupported)
		},
	}
	cmd.Flags().StringVar(&className, "class", "GeneratedBlueprint", "Name of the generated class.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout).")
	cmd.Flags().BoolVar(&failOnUnsupported, "fail-on-unsupported", false, "Exit with an error if any node could not be generated.")
	return cmd
}

func nodesCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	var category, search string
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the available node types",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(g, app.Config{}, outW, errW)
			if err != nil {
				return err
			}
			return a.ListNodes(cmd.Context(), category, search)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list nodes in this category.")
	cmd.Flags().StringVar(&search, "search", "", "Only list nodes whose title, description, type or category contains this text.")
	return cmd
}

func exportCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <graph>",
		Short: "Export a graph to Mermaid, JSON or YAML",
		Long: `Export a graph to a visualization or document format.

Examples:
  bpscript export hello.json
  bpscript export hello.json --format yaml
  bpscript export hello.yaml --format mermaid --output hello.md`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{GraphPath: args[0], OutputPath: output}, outW, errW)
			if err != nil {
				return err
			}
			err = a.Export(cmd.Context(), format)
			if errors.Is(err, app.ErrUnknownFormat) {
				return usageError("%s", err.Error())
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "mermaid", "Output format: mermaid, json, yaml.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout).")
	return cmd
}

func serveCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	var (
		busURL    string
		namespace string
		port      int
		watch     bool
	)
	cmd := &cobra.Command{
		Use:   "serve <graph>",
		Short: "Bind a graph to a game over a socket.io bus",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{
				GraphPath:       args[0],
				BusURL:          busURL,
				BusNamespace:    namespace,
				HealthcheckPort: port,
				WatchNodePacks:  watch,
			}, outW, errW)
			if err != nil {
				return err
			}
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&busURL, "bus-url", "http://localhost:3000", "URL of the socket.io host.")
	cmd.Flags().StringVar(&namespace, "bus-namespace", "/", "socket.io namespace to join.")
	cmd.Flags().IntVar(&port, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload node packs when they change.")
	return cmd
}

func storeCmd(g *globalFlags, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the graph library",
	}

	put := &cobra.Command{
		Use:   "put <graph>",
		Short: "Save a graph file into the library",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{GraphPath: args[0]}, outW, errW)
			if err != nil {
				return err
			}
			return a.StorePut(cmd.Context())
		},
	}

	var format, output string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored graph",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := blueprint.Format(format)
			if f != blueprint.FormatJSON && f != blueprint.FormatYAML {
				return usageError("invalid format '%s': must be 'json' or 'yaml'", format)
			}
			a, err := newApp(g, app.Config{OutputPath: output}, outW, errW)
			if err != nil {
				return err
			}
			return a.StoreGet(cmd.Context(), args[0], f)
		},
	}
	get.Flags().StringVar(&format, "format", "json", "Output format: json, yaml.")
	get.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout).")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(g, app.Config{}, outW, errW)
			if err != nil {
				return err
			}
			return a.StoreList(cmd.Context())
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a graph from the library",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(g, app.Config{}, outW, errW)
			if err != nil {
				return err
			}
			return a.StoreDelete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(put, get, list, del)
	return cmd
}
