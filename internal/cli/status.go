package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows the transport state, current track, position, volume, and device.`,
	RunE:  withSession(runStatus),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(sess *session, args []string) error {
	snap := sess.eng.Snapshot()

	if JSONOutput() {
		return outputStatusJSON(snap)
	}
	printStatus(snap)
	return nil
}

func outputStatusJSON(snap core.Snapshot) error {
	item := map[string]interface{}{
		"state":  snap.State.String(),
		"volume": snap.Volume,
	}
	if snap.Device != "" {
		item["device"] = snap.Device
	}
	if snap.HasTrack() {
		item["track"] = map[string]interface{}{
			"path":   snap.Track.Path,
			"title":  snap.Track.DisplayName(),
			"artist": snap.Track.ArtistName(),
			"album":  snap.Track.Album,
			"format": string(snap.Track.Format),
		}
		item["position"] = snap.TrackIndex + 1
		item["queue_length"] = snap.QueueLen
		item["elapsed"] = snap.Elapsed.Seconds()
		item["duration"] = snap.Duration.Seconds()
		item["progress_percent"] = snap.ProgressPercent()
	}
	if snap.Err != "" {
		item["error"] = snap.Err
	}
	return json.NewEncoder(os.Stdout).Encode(item)
}

func printStatus(snap core.Snapshot) {
	if !snap.HasTrack() {
		fmt.Println(dimStyle.Render("Nothing queued"))
		return
	}

	icon := "⏹"
	switch snap.State {
	case core.StatePlaying, core.StateSeeking:
		icon = "▶"
	case core.StatePaused:
		icon = "⏸"
	case core.StateError:
		icon = "✖"
	}

	fmt.Printf("%s %s\n", icon, titleStyle.Render(snap.Track.DisplayName()))
	byline := snap.Track.ArtistName()
	if snap.Track.Album != "" {
		byline += " · " + snap.Track.Album
	}
	fmt.Printf("  %s\n", dimStyle.Render(byline))

	bar := FormatProgress(snap.ProgressPercent(), 30)
	fmt.Printf("  %s %s / %s\n", bar,
		core.FormatTime(snap.Elapsed), core.FormatTime(snap.Duration))

	device := snap.Device
	if device == "" {
		device = "default"
	}
	fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf(
		"track %d/%d · 🔊 %d%% · 📱 %s",
		snap.TrackIndex+1, snap.QueueLen, snap.Volume, device)))

	if snap.Err != "" {
		fmt.Printf("  %s\n", errorStyle.Render("error: "+snap.Err))
	}
}
