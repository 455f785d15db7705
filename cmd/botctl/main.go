// Command botctl manages the bots and chats the dispatcher reads, and issues
// admin API tokens.
//
//	botctl new-bot -token 123456:ABC [-name ops]
//	botctl new-chat -bot 1 -chat -1001234567890 [-name alerts]
//	botctl list
//	botctl token [-subject ops]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/config"
	"telegraph_dispatch/internal/infrastructure"
	"telegraph_dispatch/internal/repository"
	"telegraph_dispatch/internal/usecases"
)

const usage = `usage: botctl <command> [flags]

commands:
  new-bot   register a bot token (checked with getMe)
  new-chat  register a chat for a bot
  list      list bots and their chats
  token     print an admin API token
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(cfg.Log.Level, cfg.Log.Format)

	if err := run(context.Background(), cfg, logger, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "botctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, cmd string, args []string, out io.Writer) error {
	if cmd == "token" {
		return issueToken(cfg, args, out)
	}

	store, closeStore, err := repository.OpenBotStore(ctx, cfg.DB, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tgManager := infrastructure.NewTelegramBotManager(cfg.Telegram.APIEndpoint, cfg.Telegram.Timeout, logger)
	registry := usecases.NewBotRegistry(store, tgManager, logger)

	switch cmd {
	case "new-bot":
		return newBot(ctx, registry, args, out)
	case "new-chat":
		return newChat(ctx, registry, args, out)
	case "list":
		return list(ctx, registry, out)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func newBot(ctx context.Context, registry *usecases.BotRegistry, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("new-bot", flag.ContinueOnError)
	token := fs.String("token", "", "bot API token from @BotFather")
	name := fs.String("name", "", "display name (defaults to the bot username)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return errors.New("-token is required")
	}

	bot, err := registry.Register(ctx, *token, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "bot %d registered as %s\n", bot.ID, bot.Name)
	return nil
}

func newChat(ctx context.Context, registry *usecases.BotRegistry, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("new-chat", flag.ContinueOnError)
	botID := fs.Int64("bot", 0, "bot id")
	chatID := fs.String("chat", "", "chat id or @channel")
	name := fs.String("name", "", "chat name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *botID <= 0 || *chatID == "" {
		return errors.New("-bot and -chat are required")
	}

	chat, err := registry.AddChat(ctx, *botID, *chatID, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "chat %d (%s) added to bot %d\n", chat.ID, chat.ChatID, chat.BotID)
	return nil
}

func list(ctx context.Context, registry *usecases.BotRegistry, out io.Writer) error {
	bots, err := registry.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOT\tNAME\tTOKEN\tCHAT\tCHAT NAME")
	for _, b := range bots {
		if len(b.Chats) == 0 {
			fmt.Fprintf(w, "%d\t%s\t%s\t-\t-\n", b.ID, b.Name, b.RedactedToken())
			continue
		}
		for _, c := range b.Chats {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.RedactedToken(), c.ChatID, c.Name)
		}
	}
	return w.Flush()
}

func issueToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "admin", "token subject")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !cfg.AdminEnabled() {
		return errors.New("AUTH_JWT_SECRET is not set")
	}

	token, err := usecases.NewAuthUsecase(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).IssueToken(*subject)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}
