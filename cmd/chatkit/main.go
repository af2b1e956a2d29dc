// Command chatkit is a thin driver around the library: it wires the
// Badger document store, the disk blob store, the Bluge index and the
// push gateway from env config and exposes the main operations as
// subcommands. Meant for local poking, not production serving.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"chatkit/auth"
	"chatkit/contract"
	"chatkit/domain"
	"chatkit/infrastructure/blob"
	"chatkit/infrastructure/storage"
	"chatkit/internal"
	"chatkit/moderation"
	"chatkit/push"
	"chatkit/repositories"
	"chatkit/search"
	"chatkit/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	users := flag.String("users", "", "comma-separated participant IDs")
	author := flag.String("author", "", "acting user ID")
	channel := flag.String("channel", "", "channel ID")
	text := flag.String("text", "", "message text")
	replyTo := flag.String("reply-to", "", "recipient the message is directed to")
	terms := flag.String("terms", "", "search terms")
	token := flag.String("token", "", "device token for notify")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	// 2. Stores
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 3. Library wiring
	store := storage.NewBadgerStore(db, log)
	blobs := blob.NewDiskStore(config.MediaDir, log)
	channels := repositories.NewChannelRepository(store, log)
	messages := repositories.NewMessageRepository(store, log)
	uploader := services.NewBatchUploader(blobs, log)

	var filter *moderation.Filter
	if words := internal.SplitList(config.CensoredWords); len(words) > 0 {
		mask, err := internal.MaskRune(config.CensorMask)
		if err != nil {
			return err
		}
		if filter, err = moderation.NewFilter(words, mask); err != nil {
			return fmt.Errorf("moderation filter failed: %w", err)
		}
	}
	sender := services.NewSender(messages, channels, uploader, filter, index, log)

	limit := 0
	if config.FeedLimit != nil {
		limit = *config.FeedLimit
	}
	feed := repositories.NewFeed(store, channels, log, limit)
	gateway := push.NewGateway(config.PushEndpoint, config.PushAPIKey, nil, log)

	issuer := auth.NewTokenIssuer([]byte(config.SessionSecret), config.SessionTTL)
	profiles := repositories.NewProfileRepository(store, log)
	accounts := services.NewAuthService(profiles, issuer, internal.SplitList(config.AllowedEmailDomains), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Dispatch the subcommand
	switch flag.Arg(0) {
	case "register":
		session, err := accounts.Register(ctx, *email, *password, *password)
		if err != nil {
			return err
		}
		fmt.Println(session)

	case "login":
		session, err := accounts.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Println(session)

	case "create-channel":
		id, err := channels.Create(ctx, internal.SplitList(*users), *author)
		if err != nil {
			return err
		}
		fmt.Println(id)

	case "send":
		msg, err := sender.Send(ctx, domainDraft(*channel, *author, *users, *text, *replyTo))
		if err != nil {
			return err
		}
		fmt.Println(msg.ID)

	case "messages":
		page, err := feed.MessagesForChannel(ctx, *channel)
		if err != nil {
			return err
		}
		for _, msg := range page {
			body := "<media>"
			if msg.Text != nil {
				body = *msg.Text
			}
			fmt.Printf("%s  %s  %s\n", msg.Timestamp.Format("15:04:05"), msg.SenderID, body)
		}

	case "channels":
		page, err := feed.ChannelsForUser(ctx, *author)
		if err != nil {
			return err
		}
		for _, ch := range page {
			fmt.Printf("%s  %s\n", ch.ID, strings.Join(ch.Users, " "))
		}

	case "search":
		ids, err := index.Search(ctx, *channel, *terms, 20)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}

	case "notify":
		return gateway.Send(ctx, contract.Notification{
			Token: *token,
			Title: *author,
			Body:  *text,
		})

	default:
		return fmt.Errorf("unknown command %q (register, login, create-channel, send, messages, channels, search, notify)", flag.Arg(0))
	}
	return nil
}

func domainDraft(channel, sender, users, text, replyTo string) domain.Draft {
	return domain.Draft{
		ChannelID: channel,
		SenderID:  sender,
		Users:     internal.SplitList(users),
		Text:      text,
		ReplyToID: replyTo,
	}
}
