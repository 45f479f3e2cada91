// Command watch tails rental events from a running API server. It is the
// terminal counterpart of the admin dashboard's live feed and survives server
// restarts through the reconnection agent.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gamerent/internal/realtime"
	"gamerent/pkg/log"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "WebSocket endpoint to watch")
	logLevel := flag.String("log-level", "warn", "log verbosity")
	flag.Parse()

	log.Init(log.Config{Level: *logLevel, Format: "text", Output: "stderr"})

	agent := realtime.NewAgent(*url)
	agent.Start()
	defer agent.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stderr, "watching %s\n", *url)

	for {
		select {
		case ev := <-agent.Events():
			printEvent(ev)

		case <-agent.Done():
			if agent.State() == realtime.AgentExhausted {
				fmt.Fprintln(os.Stderr, "connection lost and reconnection attempts exhausted")
				os.Exit(1)
			}
			return

		case <-quit:
			return
		}
	}
}

func printEvent(ev realtime.Event) {
	switch ev.Type {
	case realtime.EventConnected:
		fmt.Println("connected to rental feed")
	case realtime.EventNewRental, realtime.EventRentalStatusUpdated:
		data, err := json.Marshal(ev.Data)
		if err != nil {
			data = []byte("{}")
		}
		fmt.Printf("%s %s\n", ev.Type, data)
	default:
		fmt.Printf("%s\n", ev.Type)
	}
}
