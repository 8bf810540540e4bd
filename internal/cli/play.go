package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/tail"
)

var playQuiet bool

var playCmd = &cobra.Command{
	Use:   "play [path]",
	Short: "Play a file or directory",
	Long: `Play an audio file, or every playable file under a directory in
lexical order. The path is appended to the queue and playback jumps to
it. Without a path, playback starts at the current queue position.

Blocks until the queue finishes; Ctrl+C stops playback and exits.

Examples:
  aria play song.mp3           # Play one file
  aria play ~/Music/album/     # Play a directory recursively
  aria play                    # Play the saved queue`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playQuiet, "quiet", "q", false, "suppress track announcements")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	if err := sess.eng.Play(path); err != nil {
		return err
	}
	sess.persistQueue()

	if JSONOutput() {
		snap := sess.eng.Snapshot()
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status": "playing",
			"track":  snap.Track.DisplayName(),
			"queue":  snap.QueueLen,
		})
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Announce transitions while we block.
	if !playQuiet && !JSONOutput() {
		formatter := tail.NewFormatter()
		watcher := tail.NewWatcher(sess.eng, 100*time.Millisecond)
		go watcher.Start(ctx)
		go func() {
			for event := range watcher.Events() {
				fmt.Println(formatter.Format(event))
			}
		}()

		snap := sess.eng.Snapshot()
		if snap.Track != nil {
			fmt.Printf("🎵 Now playing: %s - %s\n",
				snap.Track.ArtistName(), snap.Track.DisplayName())
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sess.eng.Finished():
		snap := sess.eng.Snapshot()
		if snap.Err != "" {
			return fmt.Errorf("playback halted: %s", snap.Err)
		}
	case <-sigCh:
		sess.eng.Stop()
	}
	return nil
}
