package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/nexsales/internal/server"
)

var runAddr string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the NexSales Agent server",
	Long: `Start the NexSales Agent server which provides:
- REST API for products, customers, orders and the dashboard
- A chat endpoint that turns assistant replies into store actions
- Mock data generation through the configured provider`,
	RunE: runServer,
}

func init() {
	runCmd.Flags().StringVar(&runAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 NexSales Agent Starting...")

	fmt.Println("📝 Loading configuration...")
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("🗂️  Store ready: %d products, %d customers, %d orders\n",
		len(a.store.Products()), len(a.store.Customers()), len(a.store.Orders()))
	fmt.Printf("🤖 Assistant: %s/%s\n", a.cfg.LLM.Generator.Provider, a.generator.Model())

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(a.store, a.executor, a.interpreter, server.Options{
		Mode:          a.cfg.Server.Mode,
		RestockBuffer: a.cfg.Store.RestockBuffer,
	}, a.log.Named("http"))

	addr := a.cfg.Server.Addr
	if runAddr != "" {
		addr = runAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🌐 Starting server on %s...\n", addr)
	if err := srv.Start(ctx, addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Println("👋 Server stopped")
	return nil
}
