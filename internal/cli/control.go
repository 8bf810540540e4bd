package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/errors"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	RunE:  withSession(runPause),
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume paused playback",
	RunE:  withSession(runResume),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback",
	Long:  `Stop playback and reset the track position. The queue is kept.`,
	RunE:  withSession(runStop),
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	RunE:  withSession(runNext),
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	RunE:  withSession(runPrev),
}

var seekCmd = &cobra.Command{
	Use:   "seek <time>",
	Short: "Seek within the current track",
	Long: `Seek to a position in the current track.

Accepted forms: MM:SS, MM:SS.s, seconds, or seconds with an "s" suffix.

Examples:
  aria seek 2:30
  aria seek 90
  aria seek 30.5s`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(runSeek),
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Show, set, or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down. Without
arguments, shows the current volume. The setting is persisted.

Examples:
  aria volume 50      # Set volume to 50%
  aria volume --up    # Increase volume by 10%
  aria volume --down  # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(runVolume),
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")

	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(seekCmd)
	rootCmd.AddCommand(volumeCmd)
}

// withSession wraps a handler with session setup and teardown so each
// one-shot command sees the persisted queue and preferences.
func withSession(fn func(*session, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		defer sess.close()
		return fn(sess, args)
	}
}

func runPause(sess *session, args []string) error {
	if err := sess.eng.Pause(); err != nil {
		return errors.WithSuggestion(err, "start playback first with 'aria play'")
	}
	statusLine("paused", "⏸ Paused")
	return nil
}

func runResume(sess *session, args []string) error {
	if err := sess.eng.Resume(); err != nil {
		return errors.WithSuggestion(err, "pause playback first with 'aria pause'")
	}
	statusLine("playing", "▶ Resumed")
	return nil
}

func runStop(sess *session, args []string) error {
	if err := sess.eng.Stop(); err != nil {
		return err
	}
	statusLine("stopped", "⏹ Stopped")
	return nil
}

func runNext(sess *session, args []string) error {
	if err := sess.eng.Next(); err != nil {
		return nextPrevError(err, "end")
	}
	sess.persistQueue()
	announceCurrent(sess, "⏭")
	return nil
}

func runPrev(sess *session, args []string) error {
	if err := sess.eng.Prev(); err != nil {
		return nextPrevError(err, "start")
	}
	sess.persistQueue()
	announceCurrent(sess, "⏮")
	return nil
}

func nextPrevError(err error, boundary string) error {
	switch {
	case stderrors.Is(err, errors.ErrEmptyQueue):
		return errors.WithSuggestion(err, "add tracks with 'aria queue add <path>'")
	case stderrors.Is(err, errors.ErrNoSuchTrack):
		return fmt.Errorf("already at the %s of the queue", boundary)
	}
	return err
}

func announceCurrent(sess *session, icon string) {
	snap := sess.eng.Snapshot()
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"position": snap.TrackIndex + 1,
			"total":    snap.QueueLen,
			"track":    snap.Track.DisplayName(),
		})
		return
	}
	fmt.Printf("%s %d/%d: %s\n", icon, snap.TrackIndex+1, snap.QueueLen, snap.Track.DisplayName())
}

func runSeek(sess *session, args []string) error {
	target, err := core.ParseTimeSpec(args[0])
	if err != nil {
		return errors.WithSuggestion(err, "use MM:SS or seconds, e.g. 'aria seek 2:30'")
	}

	if err := sess.eng.Seek(target); err != nil {
		if stderrors.Is(err, errors.ErrNoTrackLoaded) {
			return errors.WithSuggestion(err, "start playback first with 'aria play'")
		}
		return err
	}

	snap := sess.eng.Snapshot()
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"position": snap.Elapsed.Seconds(),
			"duration": snap.Duration.Seconds(),
		})
		return nil
	}
	fmt.Printf("⏩ %s / %s\n", core.FormatTime(snap.Elapsed), core.FormatTime(snap.Duration))
	return nil
}

func runVolume(sess *session, args []string) error {
	current := sess.eng.Volume()

	if len(args) == 0 && !volumeUp && !volumeDown {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]int{"volume": current})
		} else {
			fmt.Printf("🔊 Volume: %d%%\n", current)
		}
		return nil
	}

	target := current
	switch {
	case volumeUp:
		target = current + 10
	case volumeDown:
		target = current - 10
	default:
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid volume level: %s", args[0])
		}
		target = v
	}

	if err := sess.eng.SetVolume(target); err != nil {
		return err
	}
	sess.persistPrefs()

	applied := sess.eng.Volume()
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]int{
			"volume":   applied,
			"previous": current,
		})
		return nil
	}
	fmt.Printf("🔊 Volume: %d%% (was %d%%)\n", applied, current)
	return nil
}

func statusLine(jsonStatus, human string) {
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": jsonStatus})
		return
	}
	fmt.Println(human)
}
