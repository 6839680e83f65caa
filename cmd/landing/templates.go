package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-landing"
	"github.com/goliatone/go-landing/pkg/spec"
)

func newTemplatesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "templates",
		Aliases: []string{"ls"},
		Short:   "List the available templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tGOAL\tTHEME\tSECTIONS\tNAME")
			for _, id := range opts.app.specs.IDs() {
				tpl, _ := opts.app.specs.Get(id)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					tpl.TemplateID, tpl.Category, tpl.Goal, tpl.Theme, len(tpl.Sections), tpl.Metadata.Name)
			}
			return w.Flush()
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate template spec files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				_, err = spec.Decode(data, path, spec.WithSectionTypes(opts.app.registry.Has))
				if err == nil {
					fmt.Fprintf(out, "ok   %s\n", path)
					continue
				}
				failed++
				var invalid *spec.ValidationError
				if !errors.As(err, &invalid) {
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "FAIL %s\n", path)
				for _, msg := range invalid.Errors {
					fmt.Fprintf(out, "     - %s\n", msg)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d spec(s) invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "inspect <template-id>",
		Short: "Print a template spec with its assets resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := landing.InspectRequest{TemplateID: args[0]}
			if offline {
				req.AllowRemoteAssets = ptr(false)
			}
			view, err := opts.app.service.Inspect(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "resolve demo assets to local fallbacks only")
	return cmd
}

func newCreditsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "credits <template-id>",
		Short: "List attributions for the demo assets a template uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := opts.app.service.Compose(cmd.Context(), landing.ComposeRequest{
				TemplateID:        args[0],
				AllowRemoteAssets: ptr(true),
				IncludeCredits:    true,
			})
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			out := cmd.OutOrStdout()
			if len(resp.Credits) == 0 {
				fmt.Fprintln(out, "No demo assets in use.")
				return nil
			}
			for _, credit := range resp.Credits {
				line := credit.Line()
				if credit.SourcePageURL != "" {
					line += " <" + credit.SourcePageURL + ">"
				}
				fmt.Fprintf(out, "%s\t%s\n", credit.AssetID, strings.TrimSpace(line))
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func ptr[T any](v T) *T { return &v }
