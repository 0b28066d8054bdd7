package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snomiao/glob-watch/internal/external"
	"github.com/snomiao/glob-watch/internal/ui"
)

var flagSocketPath string

func init() {
	daemonStatusCmd.Flags().StringVar(&flagSocketPath, "socket", external.DefaultSocketPath, "external daemon socket path")
}

// daemonStatusCmd reports whether the external watcher daemon is
// reachable and advertises the capability this library requires, mirroring
// the IsConnected/GetVersion surface of a watchman-style client without
// needing to start a real watch session.
var daemonStatusCmd = &cobra.Command{
	Use:   "daemon-status",
	Short: "Report whether the external watcher daemon is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		client, err := external.Dial(ctx, &external.Config{SocketPath: flagSocketPath})
		if err != nil {
			fmt.Println(ui.RenderFail("daemon unreachable at %s: %v", flagSocketPath, err))
			fmt.Println(ui.RenderDim("watch sessions in external mode will fall back to the native backend"))
			return
		}
		defer client.Close()

		fmt.Println(ui.RenderAccent("daemon reachable at %s", flagSocketPath))
		fmt.Println(ui.RenderDim("required capability %q advertised", external.RequiredCapability))
	},
}
