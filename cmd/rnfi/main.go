package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/eringen/rnfi"
	"github.com/eringen/rnfi/content"
	"github.com/eringen/rnfi/ogimage"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "serve":
		err = runServe(args)
	case "check":
		err = runCheck(args)
	case "og":
		err = runOG(args)
	case "new":
		err = runNew(args)
	case "messages":
		err = runMessages(args)
	case "version":
		fmt.Printf("rnfi %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rnfi - the React Native Finland site

Usage:
  rnfi <command> [arguments]

Commands:
  serve [-config file]                        Start the web server
  check [-content dir]                        Load content and report malformed documents
  og -title T [-category C] [-out file.png]   Render a preview card
  new <locale> <slug> <title...>              Create a new article
  messages [-config file] [-limit n]          List stored contact messages
  version                                     Print the rnfi version
  help                                        Show this help message

Examples:
  rnfi serve -config rnfi.yaml
  rnfi new en expo-router-tips "Expo Router tips"
  rnfi og -title "Meetup 42" -category event -out meetup-42.png`)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	_ = fs.Parse(args)

	cfg, err := rnfi.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	app := rnfi.New(cfg)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	app.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	dir := fs.String("content", "content", "content directory")
	_ = fs.Parse(args)

	store, err := content.Load(os.DirFS(*dir))
	if err != nil {
		return err
	}
	for _, l := range content.Locales {
		fmt.Printf("%s: %d articles\n", l, len(store.ListArticles(l)))
	}
	fmt.Printf("events: %d (%d upcoming)\n", len(store.AllEvents()), len(store.UpcomingEvents()))
	fmt.Printf("developers: %d\n", len(store.AllDevelopers()))
	fmt.Printf("conferences: %d\n", len(store.Conferences()))

	malformed := store.Malformed()
	if len(malformed) == 0 {
		return nil
	}
	fmt.Println()
	for _, m := range malformed {
		fmt.Printf("malformed: %v\n", m)
	}
	return fmt.Errorf("%d malformed documents", len(malformed))
}

func runOG(args []string) error {
	fs := flag.NewFlagSet("og", flag.ExitOnError)
	title := fs.String("title", "", "card title")
	category := fs.String("category", "", "category label")
	out := fs.String("out", "og.png", "output file")
	remote := fs.Bool("remote-fonts", false, "fetch Inter instead of using the bundled fonts")
	_ = fs.Parse(args)
	if *title == "" {
		return errors.New("-title is required")
	}

	var fonts ogimage.FontSource = ogimage.BundledFonts{}
	if *remote {
		fonts = ogimage.NewRemoteFonts(10 * time.Second)
	}
	png, err := ogimage.New(fonts).PNG(context.Background(), ogimage.Card{Title: *title, Category: *category})
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, png, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(png))
	return nil
}

func runMessages(args []string) error {
	fs := flag.NewFlagSet("messages", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	limit := fs.Int("limit", 20, "number of messages")
	_ = fs.Parse(args)

	cfg, err := rnfi.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	inbox, err := rnfi.NewContactStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer inbox.Close()

	ctx := context.Background()
	total, err := inbox.Count(ctx)
	if err != nil {
		return err
	}
	msgs, err := inbox.List(ctx, *limit)
	if err != nil {
		return err
	}
	fmt.Printf("%d messages\n\n", total)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIVED\tFROM\tEMAIL\tMESSAGE")
	for _, m := range msgs {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
			m.CreatedAt.Local().Format("2006-01-02 15:04"), m.FirstName, m.LastName, m.Email, preview(m.Message, 60))
	}
	return w.Flush()
}

func preview(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' {
			r = r[:i]
			break
		}
	}
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return string(r)
}
