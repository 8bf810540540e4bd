package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/tail"
	"github.com/arialabs/aria/internal/tui"
)

var (
	watchPlain     bool
	watchNoEmoji   bool
	watchTimestamp bool
	watchFormat    string
	watchInterval  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow playback changes in real-time",
	Long: `Watch playback state and render a live view: current track, progress
bar, volume, and device. With --plain, print one line per state change
instead.

Events tracked in plain mode:
  - Track changes, completions, and skips
  - Pause/Resume/Stop
  - Seeks
  - Volume and device changes
  - Playback errors`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchPlain, "plain", "p", false, "print event lines instead of the live view")
	watchCmd.Flags().BoolVar(&watchNoEmoji, "no-emoji", false, "disable emoji output (plain mode)")
	watchCmd.Flags().BoolVarP(&watchTimestamp, "timestamp", "t", false, "show timestamps (plain mode)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "custom format template (plain mode)")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "poll interval (default from config)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	interval := watchInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Watch.IntervalMillis) * time.Millisecond
	}

	if watchPlain || JSONOutput() {
		return watchPlainLines(cmd.Context(), sess, interval)
	}
	return tui.Run(sess.eng, interval)
}

func watchPlainLines(parent context.Context, sess *session, interval time.Duration) error {
	formatter := tail.NewFormatter(
		tail.WithEmoji(!watchNoEmoji),
		tail.WithTimestamp(watchTimestamp),
		tail.WithTemplate(watchFormat),
	)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	// Announce the current track before following changes.
	snap := sess.eng.Snapshot()
	if snap.HasTrack() {
		fmt.Println(formatter.Format(tail.Event{
			Type:      tail.EventTrackChange,
			Timestamp: time.Now(),
			Current:   snap,
		}))
	}

	watcher := tail.NewWatcher(sess.eng, interval)
	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(event))

		case err := <-errCh:
			if err == context.Canceled {
				return nil
			}
			return err
		}
	}
}
