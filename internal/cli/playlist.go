package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/errors"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage named playlists",
	Long:  `Save, load, and delete named playlists. A playlist is a snapshot of the queue.`,
	RunE:  withSession(runPlaylistList),
}

var playlistSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the queue as a playlist",
	Long:  `Save the current queue under a name, overwriting any existing playlist.`,
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runPlaylistSave),
}

var playlistLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Replace the queue with a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(runPlaylistLoad),
}

var playlistDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a playlist",
	Args:    cobra.ExactArgs(1),
	RunE:    withSession(runPlaylistDelete),
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved playlists",
	RunE:  withSession(runPlaylistList),
}

func init() {
	playlistCmd.AddCommand(playlistSaveCmd)
	playlistCmd.AddCommand(playlistLoadCmd)
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistCmd.AddCommand(playlistListCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistSave(sess *session, args []string) error {
	name := args[0]
	if err := sess.eng.PlaylistSave(name); err != nil {
		return err
	}
	q, err := sess.eng.QueueList()
	if err != nil {
		return err
	}
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"saved":  name,
			"tracks": len(q.Tracks),
		})
		return nil
	}
	fmt.Printf("Saved %q (%d tracks)\n", name, len(q.Tracks))
	return nil
}

func runPlaylistLoad(sess *session, args []string) error {
	name := args[0]
	if err := sess.eng.PlaylistLoad(name); err != nil {
		if stderrors.Is(err, errors.ErrPlaylistNotFound) {
			return errors.WithSuggestion(err, "see saved playlists with 'aria playlist list'")
		}
		return err
	}
	sess.persistQueue()

	q, err := sess.eng.QueueList()
	if err != nil {
		return err
	}
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"loaded": name,
			"tracks": len(q.Tracks),
		})
		return nil
	}
	fmt.Printf("Loaded %q (%d tracks)\n", name, len(q.Tracks))
	return nil
}

func runPlaylistDelete(sess *session, args []string) error {
	name := args[0]
	if err := sess.eng.PlaylistDelete(name); err != nil {
		if stderrors.Is(err, errors.ErrPlaylistNotFound) {
			return errors.WithSuggestion(err, "see saved playlists with 'aria playlist list'")
		}
		return err
	}
	statusLine("deleted", fmt.Sprintf("Deleted %q", name))
	return nil
}

func runPlaylistList(sess *session, args []string) error {
	names, err := sess.eng.PlaylistList()
	if err != nil {
		return err
	}

	if JSONOutput() {
		if names == nil {
			names = []string{}
		}
		return json.NewEncoder(os.Stdout).Encode(map[string][]string{"playlists": names})
	}

	if len(names) == 0 {
		fmt.Println(dimStyle.Render("No playlists saved"))
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
