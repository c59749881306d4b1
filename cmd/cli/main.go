package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/orderledger/internal/infrastructure/auth"
	"github.com/iho/orderledger/internal/infrastructure/logger"
	"github.com/iho/orderledger/internal/infrastructure/postgres"
)

// options are the flags shared by every API command.
type options struct {
	baseURL     string
	timeout     time.Duration
	owner       string
	ownerHeader string
	token       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "orderledger-cli",
		Short:         "OrderLedger CLI tool",
		Long:          `A command line interface for moving purchase entries in and out of the OrderLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the OrderLedger API")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	flags.StringVar(&opts.owner, "owner", os.Getenv("ORDERLEDGER_OWNER"), "Owner ID sent in the owner header")
	flags.StringVar(&opts.ownerHeader, "owner-header", "X-Owner-ID", "Header carrying the owner ID")
	flags.StringVar(&opts.token, "token", os.Getenv("ORDERLEDGER_TOKEN"), "Bearer token; takes precedence over --owner")

	rootCmd.AddCommand(
		exportCmd(opts),
		importCmd(opts),
		backupCmd(opts),
		restoreCmd(opts),
		statsCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func exportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, "/api/v1/entries/export", "", nil)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, body)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	var duplicates string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import entries from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, contentType, err := multipartFile(args[0])
			if err != nil {
				return err
			}

			path := "/api/v1/entries/import?duplicate_handling=" + url.QueryEscape(duplicates)
			resp, err := newAPIClient(opts).call(cmd.Context(), http.MethodPost, path, contentType, body)
			if err != nil {
				return err
			}

			var report struct {
				ImportedCount int      `json:"imported_count"`
				SkippedCount  int      `json:"skipped_count"`
				FailedCount   int      `json:"failed_count"`
				Errors        []string `json:"errors"`
			}
			if err := json.Unmarshal(resp, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported: %d\nSkipped: %d\nFailed: %d\n", report.ImportedCount, report.SkippedCount, report.FailedCount)
			for _, e := range report.Errors {
				fmt.Fprintf(out, "  %s\n", truncate(e, 120))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&duplicates, "duplicate-handling", "skip", "Duplicate policy: skip, update or add")
	return cmd
}

func backupCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download a JSON backup of every entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, "/api/v1/entries/backup", "", nil)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, body)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func restoreCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <backup.json>",
		Short: "Replace every entry with the contents of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("restore deletes all existing entries; pass --yes to confirm")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			resp, err := newAPIClient(opts).call(cmd.Context(), http.MethodPost, "/api/v1/entries/restore", "application/json", bytes.NewReader(data))
			if err != nil {
				return err
			}

			var report struct {
				FailedCount int      `json:"failed_count"`
				Errors      []string `json:"errors"`
				Message     string   `json:"message"`
			}
			if err := json.Unmarshal(resp, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Message)
			if report.FailedCount > 0 {
				fmt.Fprintf(out, "Failed: %d\n", report.FailedCount)
				for _, e := range report.Errors {
					fmt.Fprintf(out, "  %s\n", truncate(e, 120))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm replacing existing entries")
	return cmd
}

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print overall statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := newAPIClient(opts).call(cmd.Context(), http.MethodGet, "/api/v1/analytics/statistics", "", nil)
			if err != nil {
				return err
			}

			var stats map[string]any
			if err := json.Unmarshal(body, &stats); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Issue a bearer token for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", "internal/infrastructure/postgres/migrations", "Migrations directory")

	log := logger.New(logger.Config{Level: "info", Format: "console", Output: os.Stderr})

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.RunMigrations(databaseURL, path, log)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.RunMigrationsDown(databaseURL, path, log)
			},
		},
	)

	return cmd
}

// apiClient calls the OrderLedger HTTP API on behalf of one owner.
type apiClient struct {
	opts *options
	http *http.Client
}

func newAPIClient(opts *options) *apiClient {
	return &apiClient{opts: opts, http: &http.Client{Timeout: opts.timeout}}
}

// call performs a request and returns the body of a 2xx response.
func (c *apiClient) call(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.opts.baseURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	switch {
	case c.opts.token != "":
		req.Header.Set("Authorization", "Bearer "+c.opts.token)
	case c.opts.owner != "":
		req.Header.Set(c.opts.ownerHeader, c.opts.owner)
	default:
		return nil, fmt.Errorf("--owner or --token is required")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return nil, fmt.Errorf("request failed (status %d): %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
			}
			return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(data), 200))
	}

	return data, nil
}

func multipartFile(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(data), path)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
