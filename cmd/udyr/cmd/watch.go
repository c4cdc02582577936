package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
	"github.com/spf13/cobra"
)

// watchDebounce drops repeated events for one save
const watchDebounce = 200 * time.Millisecond

var watchScript bool

func init() {
	rootCmd.Flags().BoolVarP(&watchScript, "watch", "w", false, "re-parse the script whenever it changes")
}

// runWatch parses the script once and again after every change until
// interrupted. Diagnostics are printed but never end the loop.
func runWatch(cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func() {
		err := runFile(cmd, path)
		var exit *exitError
		if err != nil && (!errors.As(err, &exit) || !exit.silent) {
			printError(cmd.ErrOrStderr(), err)
		}
	}

	run()
	return watchFile(ctx, path, appLogger, func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "--- %s changed\n", filepath.Base(path))
		run()
	})
}

// watchFile calls onChange after writes to path until ctx is done. The
// directory is watched so editors that replace the file are seen too.
func watchFile(ctx context.Context, path string, logger *mdwlog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithOperation("cmd.watchFile")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithOperation("cmd.watchFile").
			WithDetail("path", filepath.Dir(abs))
	}

	logger.Debug("watching script", mdwlog.Fields{"path": abs})

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(last) < watchDebounce {
				continue
			}
			last = time.Now()
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnWithErr("watcher error", err)
		}
	}
}
