package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const previewDebounce = 200 * time.Millisecond

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	flags := &composeFlags{}
	var watch bool
	cmd := &cobra.Command{
		Use:   "preview <template-id>",
		Short: "Compose a page to a file, recomposing when the overrides change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.output == "" {
				flags.output = "preview.html"
			}
			render := func() error {
				req, err := flags.request(args[0])
				if err != nil {
					return err
				}
				resp := opts.app.service.Compose(cmd.Context(), req)
				if resp.Error != "" {
					return errors.New(resp.Error)
				}
				return writeOutput(cmd.OutOrStdout(), flags.output, resp.HTML)
			}

			if err := render(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if flags.overrides == "" {
				return errors.New("--watch requires --overrides")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", flags.overrides)
			return watchFile(cmd.Context(), flags.overrides, previewDebounce, func() {
				if err := render(); err != nil {
					opts.app.logger.Warn("Preview recompose failed", zap.Error(err))
				}
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "recompose whenever the overrides file changes")
	return cmd
}

// watchFile calls onChange after writes to path settle for debounce. It
// watches the parent directory so editors that replace the file on save are
// still seen. It returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		case <-timer.C:
			onChange()
		}
	}
}
