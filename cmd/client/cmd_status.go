package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrylevesque/boardbot/internal/screen"
)

var statusFlags struct {
	once bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Watch the connection to the processing server",
	Long:  "Hold the status WebSocket open and print every change. Exits non-zero\nonce the server stays unreachable for a whole retry round.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlags.once, "once", false, "Exit as soon as the connection opens")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	events := make(chan bool)
	gaveUp := make(chan struct{}, 1)
	// released before a.Close so the final close event cannot block Stop
	done := make(chan struct{})
	defer close(done)
	a.Monitor.Subscribe(func(connected bool) {
		select {
		case events <- connected:
		case <-done:
		}
	})
	a.Monitor.OnGiveUp(func() {
		select {
		case gaveUp <- struct{}{}:
		default:
		}
	})

	fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.TimeOnly), screen.LabelUnconnected)
	a.Monitor.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case connected := <-events:
			fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.TimeOnly), screen.State{Connected: connected}.StatusLabel())
			if connected && statusFlags.once {
				return nil
			}
		case <-gaveUp:
			return fmt.Errorf("server unreachable after %d attempts", a.Config.Monitor.MaxAttempts)
		}
	}
}
