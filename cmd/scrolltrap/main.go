package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scrolltrap/scrolltrap/internal/scrolltrap"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "scrolltrap",
		Short: "scrolltrap - educational social-feed manipulation simulator",
		Long: `A standalone local server that runs an interactive simulation of a
social-media feed, built to let you experience (and afterwards have
explained) the persuasive-design mechanics such platforms use:
variable rewards, empty notifications, infinite scroll, FOMO banners,
fake typing indicators, disguised ads, and suspicious friend requests.

Everything is synthetic and local:
  - No real networking beyond the local UI connection
  - No persistence across sessions, no accounts, no real user data
  - One session at a time: Intro -> Playing -> Reveal`,
	}

	rootCmd.AddCommand(createStartCmd())
	rootCmd.AddCommand(createStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func createStartCmd() *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the simulation server",
		Long: `Start a local HTTP server hosting one simulation session.
The server runs until interrupted (Ctrl+C).

Watch the session at http://localhost:8080/ (or your configured host:port)`,
		Run: func(cmd *cobra.Command, args []string) {
			server := scrolltrap.NewServer(port, host)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					errChan <- err
				}
			}()

			select {
			case <-sigChan:
				color.Yellow("\n🛑 Received interrupt signal, shutting down...")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()

				if err := server.Stop(shutdownCtx); err != nil {
					color.Red("Error shutting down server: %v", err)
					os.Exit(1)
				}

				color.Green("✅ scrolltrap server stopped gracefully")
			case err := <-errChan:
				color.Red("❌ Server error: %v", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to run the simulation server on")
	cmd.Flags().StringVar(&host, "host", "localhost", "Host to bind the simulation server to")

	return cmd
}

func createStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check simulation server status",
		Long:  "Check if a scrolltrap server is running and display its status",
		Run: func(cmd *cobra.Command, args []string) {
			ports := []int{8080, 3000, 8081}
			for _, p := range ports {
				resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", p))
				if err == nil {
					defer resp.Body.Close()
					if resp.StatusCode == http.StatusOK {
						color.Green("✅ scrolltrap server is running on port %d", p)
						return
					}
				}
			}
			color.Red("❌ No scrolltrap server found")
		},
	}
}
