package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"recruiter-assistant/internal/app"
	"recruiter-assistant/internal/chatbot"
	"recruiter-assistant/internal/config"
)

var showIntent bool

func main() {
	root := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the recruiter assistant a question from the terminal",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}
	root.PersistentFlags().BoolVar(&showIntent, "intent", false, "Print the classified intent and entity with each reply")

	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session with its own waitlist",
		Args:  cobra.NoArgs,
		Run:   runRepl,
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newEngine() (*chatbot.Engine, func()) {
	cfg := config.LoadConfig()
	source, cleanup, err := app.BuildSource(cfg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return chatbot.NewEngine(source, chatbot.WithTimeout(cfg.BackendTimeout)), cleanup
}

func runAsk(cmd *cobra.Command, args []string) {
	engine, cleanup := newEngine()
	defer cleanup()

	reply := engine.Respond(cmd.Context(), strings.Join(args, " "), nil)
	printReply(reply)
}

func runRepl(cmd *cobra.Command, _ []string) {
	engine, cleanup := newEngine()
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wl := chatbot.NewWaitlist()
	fmt.Println(engine.Welcome(ctx))
	fmt.Println("\nType a question, /waitlist to list waitlisted candidates, or /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/waitlist":
			reply, _ := engine.RunQuickAction(ctx, "show_waitlist", wl)
			printReply(reply)
			continue
		}
		printReply(engine.Respond(ctx, line, wl))
		if ctx.Err() != nil {
			return
		}
	}
}

func printReply(reply chatbot.Reply) {
	if showIntent {
		if reply.Entity != "" {
			fmt.Printf("[%s: %q]\n", reply.Intent, reply.Entity)
		} else {
			fmt.Printf("[%s]\n", reply.Intent)
		}
	}
	fmt.Println(reply.Text)
}
