package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	synchub "aniboard/internal/sync"
)

// Connects to the TCP sync fabric and prints library events as they happen.
// Reconnects forever; useful for watching a second device stay in step.

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	user := flag.String("user", "", "only show events for this user id")
	raw := flag.Bool("raw", false, "print raw JSON lines instead of formatted events")
	flag.Parse()

	for {
		if err := run(*addr, *user, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr, user string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)
	if user != "" {
		if _, err := fmt.Fprintf(conn, "SUB %s\n", user); err != nil {
			return err
		}
	}

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev synchub.LibraryEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// welcome frames and anything unrecognized print as-is
			fmt.Println(string(line))
			continue
		}
		fmt.Println(formatEvent(ev))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func formatEvent(ev synchub.LibraryEvent) string {
	at := ev.At.Local().Format("15:04:05")
	switch ev.Type {
	case synchub.EventLibraryDelete:
		return fmt.Sprintf("%s %s user=%s media=%d", at, ev.Type, ev.UserID, ev.MediaID)
	default:
		return fmt.Sprintf("%s %s user=%s media=%d kind=%s status=%s vol=%d ch=%d ep=%d",
			at, ev.Type, ev.UserID, ev.MediaID, ev.MediaKind, ev.Status,
			ev.ProgressVolume, ev.ProgressChapter, ev.ProgressEpisode)
	}
}
