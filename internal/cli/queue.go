package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/errors"
)

var queueLimit int

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the playback queue",
	Long:  `View and manage the playback queue. The queue persists between invocations.`,
	RunE:  withSession(runQueueList),
}

var queueAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Add a file or directory to the queue",
	Long: `Append an audio file to the queue, or every playable file under a
directory in lexical order.

Examples:
  aria queue add song.mp3
  aria queue add ~/Music/album/`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(runQueueAdd),
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued tracks",
	RunE:  withSession(runQueueList),
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the queue",
	Long:  `Remove all tracks from the queue, stopping playback first if needed.`,
	RunE:  withSession(runQueueClear),
}

var queuePositionCmd = &cobra.Command{
	Use:   "position",
	Short: "Show the current queue position",
	RunE:  withSession(runQueuePosition),
}

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "l", 20, "Maximum number of tracks to show")
	queueListCmd.Flags().IntVarP(&queueLimit, "limit", "l", 20, "Maximum number of tracks to show")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueClearCmd)
	queueCmd.AddCommand(queuePositionCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueAdd(sess *session, args []string) error {
	added, err := sess.eng.QueueAdd(args[0])
	if err != nil {
		if stderrors.Is(err, errors.ErrNoPlayableFiles) {
			return errors.WithSuggestion(err, "supported formats: mp3, wav, flac, ogg")
		}
		return err
	}
	sess.persistQueue()

	q, err := sess.eng.QueueList()
	if err != nil {
		return err
	}
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]int{
			"added": added,
			"total": len(q.Tracks),
		})
		return nil
	}
	fmt.Printf("Added %d track(s), queue has %d\n", added, len(q.Tracks))
	return nil
}

func runQueueList(sess *session, args []string) error {
	q, err := sess.eng.QueueList()
	if err != nil {
		return err
	}

	if q.IsEmpty() {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"queue": []interface{}{},
			})
		} else {
			fmt.Println(dimStyle.Render("Queue is empty"))
		}
		return nil
	}

	tracks := q.Tracks
	if queueLimit > 0 && len(tracks) > queueLimit {
		tracks = tracks[:queueLimit]
	}

	if JSONOutput() {
		output := make([]map[string]interface{}, len(tracks))
		for i, t := range tracks {
			output[i] = map[string]interface{}{
				"position": i + 1,
				"title":    t.DisplayName(),
				"artist":   t.Artist,
				"album":    t.Album,
				"path":     t.Path,
				"format":   string(t.Format),
				"size":     t.FileSize,
			}
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"queue":    output,
			"total":    len(q.Tracks),
			"position": q.CurrentIndex + 1,
		})
	}

	table := NewTable("", "#", "TITLE", "ARTIST", "FORMAT", "SIZE")
	for i, t := range tracks {
		marker := " "
		if i == q.CurrentIndex {
			marker = "▶"
		}
		table.Row(marker,
			fmt.Sprintf("%d", i+1),
			TruncateString(t.DisplayName(), 40),
			TruncateString(t.ArtistName(), 24),
			string(t.Format),
			humanize.Bytes(uint64(t.FileSize)))
	}
	table.Flush()

	if len(q.Tracks) > len(tracks) {
		fmt.Printf("\n... and %d more tracks\n", len(q.Tracks)-len(tracks))
	}
	return nil
}

func runQueueClear(sess *session, args []string) error {
	if err := sess.eng.QueueClear(); err != nil {
		return err
	}
	sess.persistQueue()
	statusLine("cleared", "Queue cleared")
	return nil
}

func runQueuePosition(sess *session, args []string) error {
	snap := sess.eng.Snapshot()
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]int{
			"position": snap.TrackIndex + 1,
			"total":    snap.QueueLen,
		})
		return nil
	}
	if snap.QueueLen == 0 {
		fmt.Println(dimStyle.Render("Queue is empty"))
		return nil
	}
	track := ""
	if snap.HasTrack() {
		track = ": " + snap.Track.DisplayName()
	}
	fmt.Printf("%d/%d%s\n", snap.TrackIndex+1, snap.QueueLen, track)
	return nil
}
