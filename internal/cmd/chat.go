package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/nexsales/internal/assistant"
	"github.com/matthieukhl/nexsales/internal/response"
)

var (
	chatMessage  string
	chatShowData bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the ERP assistant from the terminal",
	Long: `Start an interactive session with the ERP assistant, or send a single
message with --message. Commands the assistant returns are executed
against an in-memory store that lives as long as the session.

Inside a session:
  /mock   generate and load mock products and customers
  /exit   leave the session`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "send one message and exit")
	chatCmd.Flags().BoolVar(&chatShowData, "data", true, "print display payloads as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if chatMessage != "" {
		printResponse(os.Stdout, a.interpreter.Handle(ctx, chatMessage), chatShowData)
		return nil
	}

	fmt.Printf("💬 NexSales assistant (%s). Type /exit to quit.\n", a.generator.Model())
	return runREPL(ctx, a.interpreter, os.Stdin, os.Stdout, chatShowData)
}

// runREPL reads one message per line until EOF or /exit
func runREPL(ctx context.Context, in *assistant.Interpreter, r io.Reader, w io.Writer, showData bool) error {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/mock":
			res, err := in.GenerateMockData(ctx)
			printResponse(w, response.MockData(res, err), false)
			continue
		}

		printResponse(w, in.Handle(ctx, line), showData)
	}
}

func printResponse(w io.Writer, resp response.Response, showData bool) {
	fmt.Fprintln(w, resp.Text)
	if !showData || resp.Data == nil {
		return
	}
	out, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(w, string(out))
}
