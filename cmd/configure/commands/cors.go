package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/benvon/routecors/internal/config"
	"github.com/benvon/routecors/internal/cors"
	"github.com/benvon/routecors/internal/database"
	"github.com/benvon/routecors/internal/models"
	"github.com/spf13/cobra"
)

// NewCorsCmd creates the cors configuration command with its subcommands.
func NewCorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cors",
		Short: "Manage CORS configuration",
		Long:  "List, update, reset, validate or check the CORS configuration (stored in database).",
	}
	cmd.AddCommand(newCorsListCmd())
	cmd.AddCommand(newCorsSetCmd())
	cmd.AddCommand(newCorsResetCmd())
	cmd.AddCommand(newCorsValidateCmd())
	cmd.AddCommand(newCorsCheckCmd())
	return cmd
}

// openRepo connects to DATABASE_URL. The caller closes the returned DB.
func openRepo() (*database.DB, *database.CorsConfigRepository, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := database.New(databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, database.NewCorsConfigRepository(db), nil
}

func newCorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current CORS configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			c, err := repo.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("get cors config: %w", err)
			}
			out := cmd.OutOrStdout()
			if c == nil {
				fmt.Fprintln(out, "No CORS configuration in database. Use 'cors set' to add one.")
				return nil
			}
			printStored(out, c)
			return nil
		},
	}
}

func printStored(out io.Writer, c *models.CorsConfig) {
	fmt.Fprintln(out, "CORS configuration:")
	fmt.Fprintf(out, "  Allowed origin: %s\n", c.AllowedOrigin)
	fmt.Fprintf(out, "  Allowed routes: %s\n", c.AllowedRoutes)
	fmt.Fprintf(out, "  Allow-Methods:  %s\n", valueOrUnset(c.AllowMethods))
	fmt.Fprintf(out, "  Allow-Headers:  %s\n", valueOrUnset(c.AllowHeaders))
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "  Updated at:     %s\n", c.UpdatedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func newCorsSetCmd() *cobra.Command {
	var c models.CorsConfig
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set CORS configuration",
		Long:  `Update the stored CORS configuration. --origin is "*" or comma-separated hosts and *suffix patterns; --routes is "*" or comma-separated routes (a trailing "*" matches a prefix).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(c.AllowedOrigin) == "" {
				return fmt.Errorf("--origin is required")
			}
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := repo.Set(cmd.Context(), &c); err != nil {
				return fmt.Errorf("set cors config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "CORS configuration updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&c.AllowedOrigin, "origin", "", "Allowed origin spec (required)")
	cmd.Flags().StringVar(&c.AllowedRoutes, "routes", "*", "Allowed routes spec")
	cmd.Flags().StringVar(&c.AllowMethods, "allow-methods", "", "Access-Control-Allow-Methods value")
	cmd.Flags().StringVar(&c.AllowHeaders, "allow-headers", "", "Access-Control-Allow-Headers value")
	return cmd
}

func newCorsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove the stored CORS configuration",
		Long:  "Delete the stored row so the service falls back to its environment/file configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, repo, err := openRepo()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := repo.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "CORS configuration removed.")
			return nil
		},
	}
}

func newCorsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a YAML CORS configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.LoadCORSFile(args[0])
			if err != nil {
				return err
			}
			built, err := fileCfg.Build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !built.Enabled() {
				fmt.Fprintln(out, "Valid, but no allowedOrigin is set: CORS stays disabled.")
				return nil
			}
			fmt.Fprintf(out, "Valid. Allowed origin: %s; allowed routes: %s\n", built.Origins(), built.Routes())
			return nil
		},
	}
}

type checkOptions struct {
	route  string
	origin string
	method string
	// inline configuration; when allowedOrigin is empty the stored config is used
	allowedOrigin string
	allowedRoutes string
	allowMethods  string
	allowHeaders  string
}

func newCorsCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show the CORS decision for a request",
		Long:  "Evaluate a route/origin/method against the stored configuration, or against --allowed-origin/--allowed-routes when given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := checkConfig(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printDecision(cmd.OutOrStdout(), opts, cfg)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.route, "route", "", "Route in controller/action form (required)")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "Origin header value, e.g. https://app.example.com")
	cmd.Flags().StringVar(&opts.method, "method", http.MethodGet, "HTTP method")
	cmd.Flags().StringVar(&opts.allowedOrigin, "allowed-origin", "", "Evaluate against this origin spec instead of the stored one")
	cmd.Flags().StringVar(&opts.allowedRoutes, "allowed-routes", "*", "Routes spec used with --allowed-origin")
	cmd.Flags().StringVar(&opts.allowMethods, "allow-methods", "", "Allow-Methods used with --allowed-origin")
	cmd.Flags().StringVar(&opts.allowHeaders, "allow-headers", "", "Allow-Headers used with --allowed-origin")
	_ = cmd.MarkFlagRequired("route")
	return cmd
}

func checkConfig(ctx context.Context, opts checkOptions) (*cors.Config, error) {
	if opts.allowedOrigin != "" {
		return database.BuildCorsConfig(&models.CorsConfig{
			AllowedOrigin: opts.allowedOrigin,
			AllowedRoutes: opts.allowedRoutes,
			AllowMethods:  opts.allowMethods,
			AllowHeaders:  opts.allowHeaders,
		})
	}
	db, repo, err := openRepo()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	stored, err := repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cors config: %w", err)
	}
	if stored == nil {
		return cors.Disabled(), nil
	}
	return database.BuildCorsConfig(stored)
}

func printDecision(out io.Writer, opts checkOptions, cfg *cors.Config) {
	headers := cors.RequestHeaders{}
	if opts.origin != "" {
		headers[cors.HeaderOrigin] = opts.origin
	}
	d := cors.Evaluate(cfg, opts.route, opts.method, headers)
	if !d.Allowed {
		fmt.Fprintln(out, "Not applicable: no CORS headers would be sent.")
		return
	}
	h := http.Header{}
	d.WriteHeaders(h)
	fmt.Fprintln(out, "Allowed. Response headers:")
	for _, name := range []string{cors.HeaderAllowOrigin, cors.HeaderAllowMethods, cors.HeaderAllowHeaders, cors.HeaderVary} {
		if v := h.Get(name); v != "" {
			fmt.Fprintf(out, "  %s: %s\n", name, v)
		}
	}
	if d.Terminate {
		fmt.Fprintln(out, "Preflight: the response ends with 204 No Content.")
	}
}
