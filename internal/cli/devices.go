package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage audio output devices",
	RunE:  withSession(runDeviceList),
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playback devices",
	RunE:  withSession(runDeviceList),
}

var deviceSetCmd = &cobra.Command{
	Use:   "set <name|index>",
	Short: "Select the playback device",
	Long: `Select an output device by name or by its 1-based index from
'aria device list'. The choice is persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(runDeviceSet),
}

func init() {
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceSetCmd)
	rootCmd.AddCommand(deviceCmd)
}

func runDeviceList(sess *session, args []string) error {
	devices, err := sess.eng.Devices()
	if err != nil {
		return err
	}

	if JSONOutput() {
		output := make([]map[string]interface{}, len(devices))
		for i, d := range devices {
			output[i] = map[string]interface{}{
				"index":      i + 1,
				"name":       d.Name,
				"is_default": d.IsDefault,
				"is_active":  d.IsActive,
			}
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"devices": output})
	}

	if len(devices) == 0 {
		fmt.Println(dimStyle.Render("No playback devices found"))
		return nil
	}

	table := NewTable("", "#", "NAME", "DEFAULT")
	for i, d := range devices {
		def := ""
		if d.IsDefault {
			def = "yes"
		}
		table.Row(StatusIcon(d.IsActive), fmt.Sprintf("%d", i+1), d.Name, def)
	}
	table.Flush()
	return nil
}

func runDeviceSet(sess *session, args []string) error {
	if err := sess.eng.SelectDevice(args[0]); err != nil {
		return err
	}
	sess.persistPrefs()

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"device": sess.eng.Snapshot().Device,
		})
		return nil
	}
	fmt.Printf("📱 Device: %s\n", sess.eng.Snapshot().Device)
	return nil
}
