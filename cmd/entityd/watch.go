package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/groblegark/entityd/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream entity lifecycle events from NATS",
	Long: `Watch subscribes to the entity event stream and prints each event
as it arrives. Requires the server to be running with NATS enabled.`,
	PersistentPreRunE: noClientPreRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		if natsURL == "" {
			natsURL = os.Getenv("ENTITYD_NATS_URL")
		}
		if natsURL == "" {
			if r, err := activeRemote(); err == nil && r.NATSURL != "" {
				natsURL = r.NATSURL
			}
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL: set --nats-url, ENTITYD_NATS_URL, or a remote with nats_url")
		}

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe("entities.>")
		if err != nil {
			return err
		}
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		fmt.Fprintf(os.Stderr, "watching entity events on %s (ctrl-c to stop)\n", natsURL)
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				printEvent(msg)
			case <-sigCh:
				return nil
			}
		}
	},
}

// printEvent renders a created/updated payload ({"entity":{...}}) or a
// deleted payload ({"id":...}); anything else is printed raw.
func printEvent(payload []byte) {
	if jsonOutput {
		fmt.Println(string(payload))
		return
	}
	var ev struct {
		Entity *struct {
			ID int64 `json:"id"`
		} `json:"entity"`
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		fmt.Println(string(payload))
		return
	}
	switch {
	case ev.Entity != nil:
		fmt.Printf("entity %d changed: %s\n", ev.Entity.ID, payload)
	case ev.ID != 0:
		fmt.Printf("entity %d deleted\n", ev.ID)
	default:
		fmt.Println(string(payload))
	}
}

func init() {
	watchCmd.Flags().String("nats-url", "", "NATS server URL")
}
