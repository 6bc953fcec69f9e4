// sync-client tails the TCP event feed and prints one line per catalog
// mutation, reconnecting when the server goes away.
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

	"cinelist/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	user := flag.String("user", "", "only show events from this user id")
	raw := flag.Bool("raw", false, "print raw JSON lines")
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

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var ev sync.Event
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// welcome messages and anything non-event print as-is
			fmt.Println(string(line))
			continue
		}
		if user != "" && ev.UserID != user {
			continue
		}
		if raw {
			fmt.Println(string(line))
			continue
		}
		fmt.Println(describe(ev))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func describe(ev sync.Event) string {
	ts := ev.At.Local().Format("15:04:05")
	switch ev.Type {
	case sync.EventListCreate:
		return fmt.Sprintf("%s  %s created list %d", ts, ev.UserID, ev.ListID)
	case sync.EventListDelete:
		return fmt.Sprintf("%s  %s deleted list %d", ts, ev.UserID, ev.ListID)
	case sync.EventListItemAdd:
		return fmt.Sprintf("%s  %s added %s/%d to list %d", ts, ev.UserID, ev.MediaType, ev.MediaID, ev.ListID)
	case sync.EventListItemRemove:
		return fmt.Sprintf("%s  %s removed %s/%d from list %d", ts, ev.UserID, ev.MediaType, ev.MediaID, ev.ListID)
	case sync.EventRatingCreate, sync.EventRatingUpdate:
		return fmt.Sprintf("%s  %s rated %s/%d", ts, ev.UserID, ev.MediaType, ev.MediaID)
	case sync.EventRatingDelete:
		return fmt.Sprintf("%s  %s removed their rating of %s/%d", ts, ev.UserID, ev.MediaType, ev.MediaID)
	default:
		return fmt.Sprintf("%s  %s: %s", ts, ev.UserID, ev.Type)
	}
}
