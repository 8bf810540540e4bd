package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arialabs/aria/internal/tail"
)

// runShell is the no-subcommand mode: a line-oriented prompt that
// drives one long-lived engine and announces transitions as they
// happen.
func runShell(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.close()
	defer sess.persistQueue()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// SIGINT stops playback but keeps the shell alive.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case <-sigCh:
				sess.eng.Stop()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Background announcements for track transitions and errors.
	formatter := tail.NewFormatter()
	watcher := tail.NewWatcher(sess.eng, 100*time.Millisecond)
	go watcher.Start(ctx)
	go func() {
		for event := range watcher.Events() {
			switch event.Type {
			case tail.EventTrackChange, tail.EventTrackComplete, tail.EventError:
				fmt.Printf("\r%s\n%s", formatter.Format(event), prompt)
			}
		}
	}()

	fmt.Println("aria interactive shell. Type 'help' for commands, 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := splitArgs(line)

		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		if err := dispatch(sess, fields[0], fields[1:]); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}
	}
}

const prompt = "aria> "

// dispatch routes one shell line to the matching command handler.
func dispatch(sess *session, name string, args []string) error {
	switch name {
	case "play":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		if err := sess.eng.Play(path); err != nil {
			return err
		}
		sess.persistQueue()
		return nil
	case "pause":
		return sess.eng.Pause()
	case "resume":
		return sess.eng.Resume()
	case "stop":
		return sess.eng.Stop()
	case "next":
		return runNext(sess, args)
	case "prev":
		return runPrev(sess, args)
	case "seek":
		if len(args) != 1 {
			return fmt.Errorf("usage: seek <time>")
		}
		return runSeek(sess, args)
	case "volume":
		if len(args) > 1 {
			return fmt.Errorf("usage: volume [0-100]")
		}
		return runVolume(sess, args)
	case "status":
		return runStatus(sess, nil)
	case "queue":
		return dispatchQueue(sess, args)
	case "playlist":
		return dispatchPlaylist(sess, args)
	case "device":
		return dispatchDevice(sess, args)
	case "help":
		printShellHelp()
		return nil
	default:
		return fmt.Errorf("unknown command %q, try 'help'", name)
	}
}

func dispatchQueue(sess *session, args []string) error {
	if len(args) == 0 {
		return runQueueList(sess, nil)
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: queue add <path>")
		}
		return runQueueAdd(sess, args[1:])
	case "list":
		return runQueueList(sess, nil)
	case "clear":
		return runQueueClear(sess, nil)
	case "position":
		return runQueuePosition(sess, nil)
	}
	return fmt.Errorf("usage: queue add|list|clear|position")
}

func dispatchPlaylist(sess *session, args []string) error {
	if len(args) == 0 {
		return runPlaylistList(sess, nil)
	}
	switch args[0] {
	case "save", "load", "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: playlist %s <name>", args[0])
		}
	}
	switch args[0] {
	case "save":
		return runPlaylistSave(sess, args[1:])
	case "load":
		return runPlaylistLoad(sess, args[1:])
	case "delete":
		return runPlaylistDelete(sess, args[1:])
	case "list":
		return runPlaylistList(sess, nil)
	}
	return fmt.Errorf("usage: playlist save|load|delete <name> | list")
}

func dispatchDevice(sess *session, args []string) error {
	if len(args) == 0 {
		return runDeviceList(sess, nil)
	}
	switch args[0] {
	case "list":
		return runDeviceList(sess, nil)
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: device set <name|index>")
		}
		return runDeviceSet(sess, args[1:])
	}
	return fmt.Errorf("usage: device list | set <name|index>")
}

func printShellHelp() {
	fmt.Print(`Commands:
  play [path]              play a file/directory, or the current queue
  pause / resume / stop    transport control
  next / prev              move through the queue
  seek <time>              seek, e.g. 2:30 or 90
  volume [0-100]           show or set volume
  status                   show playback status
  queue add|list|clear|position
  playlist save|load|delete <name> | list
  device list | set <name|index>
  exit                     quit the shell
`)
}

// splitArgs splits a shell line into fields, honoring single and
// double quotes so paths with spaces work.
func splitArgs(line string) []string {
	var fields []string
	var cur strings.Builder
	var quote rune
	inField := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inField = true
		case r == ' ' || r == '\t':
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields
}
