package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-landing"
	"github.com/goliatone/go-landing/pkg/briefwizard"
	"github.com/goliatone/go-landing/pkg/pipeline"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		briefPath     string
		interactive   bool
		saveOverrides string
		flags         composeFlags
	)
	cmd := &cobra.Command{
		Use:   "generate <template-id>",
		Short: "Generate copy from a business brief and compose the page",
		Long: `Generate runs the draft and enhance stages against the configured
generation provider and composes the result. When the provider is "none"
or unreachable the page is built from the brief itself.

The brief is read from a YAML or JSON file (--brief) or collected
interactively (--interactive).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				brief pipeline.BusinessBrief
				err   error
			)
			switch {
			case briefPath != "" && interactive:
				return errors.New("use either --brief or --interactive")
			case briefPath != "":
				brief, err = readBrief(briefPath)
			case interactive:
				tpl, ok := opts.app.specs.Get(args[0])
				if !ok {
					return fmt.Errorf("unknown template %q", args[0])
				}
				brief, err = briefwizard.Run(cmd.Context(), nil, tpl)
			default:
				return errors.New("a brief is required: pass --brief or --interactive")
			}
			if err != nil {
				return err
			}

			req := landing.GenerateRequest{
				TemplateID:     args[0],
				Brief:          brief,
				IncludeCredits: flags.credits,
				ThemeVariant:   flags.variant,
			}
			if flags.offline {
				req.AllowRemoteAssets = ptr(false)
			}
			resp := opts.app.service.GeneratePage(cmd.Context(), req)
			if resp.Error != "" {
				return errors.New(resp.Error)
			}
			if saveOverrides != "" {
				data, err := json.MarshalIndent(resp.Overrides, "", "  ")
				if err != nil {
					return fmt.Errorf("encode overrides: %w", err)
				}
				if err := writeFile(saveOverrides, string(data)+"\n"); err != nil {
					return err
				}
			}
			return writeOutput(cmd.OutOrStdout(), flags.output, resp.HTML)
		},
	}
	cmd.Flags().StringVar(&briefPath, "brief", "", "YAML or JSON business brief")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "collect the brief interactively")
	cmd.Flags().StringVar(&saveOverrides, "save-overrides", "", "write the generated overrides as JSON for later compose/preview runs")
	cmd.Flags().BoolVar(&flags.offline, "offline", false, "never reference remote demo assets")
	cmd.Flags().BoolVar(&flags.credits, "credits", true, "append the image credits footer")
	cmd.Flags().StringVar(&flags.variant, "variant", "", "theme variant")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// readBrief decodes a YAML brief. JSON input parses as YAML too.
func readBrief(path string) (pipeline.BusinessBrief, error) {
	var brief pipeline.BusinessBrief
	data, err := os.ReadFile(path)
	if err != nil {
		return brief, fmt.Errorf("read brief: %w", err)
	}
	if err := yaml.Unmarshal(data, &brief); err != nil {
		return brief, fmt.Errorf("decode brief %s: %w", path, err)
	}
	return brief, nil
}
