package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-landing"
	"github.com/goliatone/go-landing/pkg/compose"
)

type composeFlags struct {
	overrides string
	offline   bool
	credits   bool
	variant   string
	output    string
}

func (f *composeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.overrides, "overrides", "", "JSON file with content overrides")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "never reference remote demo assets")
	cmd.Flags().BoolVar(&f.credits, "credits", true, "append the image credits footer")
	cmd.Flags().StringVar(&f.variant, "variant", "", "theme variant")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
}

func (f *composeFlags) request(templateID string) (landing.ComposeRequest, error) {
	req := landing.ComposeRequest{
		TemplateID:     templateID,
		IncludeCredits: f.credits,
		ThemeVariant:   f.variant,
	}
	if f.offline {
		req.AllowRemoteAssets = ptr(false)
	}
	if f.overrides != "" {
		data, err := os.ReadFile(f.overrides)
		if err != nil {
			return req, fmt.Errorf("read overrides: %w", err)
		}
		req.Overrides = data
	}
	return req, nil
}

func newComposeCmd(opts *rootOptions) *cobra.Command {
	flags := &composeFlags{}
	cmd := &cobra.Command{
		Use:   "compose <template-id>",
		Short: "Render a template with optional content overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			resp := opts.app.service.Compose(cmd.Context(), req)
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			return writeOutput(cmd.OutOrStdout(), flags.output, resp.HTML)
		},
	}
	flags.register(cmd)
	return cmd
}

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var (
		out         string
		allowRemote bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every template with default content into a directory",
		Long: `Render every template into <out>/<template-id>/index.html and copy the
stylesheets the pages link. Demo assets resolve to local fallbacks unless
--allow-remote is set, so the result works without network access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := opts.app.service.ComposeAll(cmd.Context(), nil, compose.Options{
				AllowRemoteAssets: ptr(allowRemote),
				IncludeCredits:    true,
			})
			if err != nil {
				return err
			}
			for id, result := range results {
				path := filepath.Join(out, id, "index.html")
				if err := writeFile(path, result.HTML); err != nil {
					return err
				}
				opts.app.logger.Info("Page written", zap.String("template_id", id), zap.String("path", path))
			}
			if err := copyStatic(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d page(s) into %s\n", len(results), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "dist", "output directory")
	cmd.Flags().BoolVar(&allowRemote, "allow-remote", false, "allow remote demo asset URLs")
	return cmd
}

// copyStatic writes the embedded stylesheets under the URL paths the
// composed pages link.
func copyStatic(out string) error {
	static := landing.StaticFS()
	for dir, urlPath := range landing.StaticPaths() {
		err := fs.WalkDir(static, dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || entry.IsDir() {
				return err
			}
			data, err := fs.ReadFile(static, path)
			if err != nil {
				return err
			}
			rel := strings.TrimPrefix(path, dir+"/")
			return writeFile(filepath.Join(out, filepath.FromSlash(urlPath), rel), string(data))
		})
		if err != nil {
			return fmt.Errorf("copy static %s: %w", dir, err)
		}
	}
	return nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := writeFile(path, content); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Page written to %s\n", path)
	return nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
