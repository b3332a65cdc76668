package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apix "github.com/tmaharjan/voxcore/agent/api"
	contentx "github.com/tmaharjan/voxcore/agent/content"
	contractx "github.com/tmaharjan/voxcore/agent/contract"
	enginex "github.com/tmaharjan/voxcore/agent/engine"
	llmx "github.com/tmaharjan/voxcore/agent/llm"
	persistx "github.com/tmaharjan/voxcore/agent/persist"
	promptx "github.com/tmaharjan/voxcore/agent/prompt"
	statex "github.com/tmaharjan/voxcore/agent/state"
	toolx "github.com/tmaharjan/voxcore/agent/tool"
	voicex "github.com/tmaharjan/voxcore/agent/voice"
	configx "github.com/tmaharjan/voxcore/pkg/config"
	_ "github.com/tmaharjan/voxcore/pkg/logger/autoload"
	webhookx "github.com/tmaharjan/voxcore/pkg/webhook"
)

type AppConfig struct {
	ContentDir  string `envconfig:"CONTENT_DIR" split_words:"true" default:"./content"`
	LeadsPath   string `envconfig:"LEADS_PATH" split_words:"true" default:"leads_db.json"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" split_words:"true" default:":8080"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" split_words:"true"`
	WebhookURL  string `envconfig:"WEBHOOK_URL" split_words:"true"`
}

var (
	chatFlavor = flag.String("chat", "", "run an interactive console chat instead of the HTTP server (sdr, tutor or story)")
)

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundle, err := contentx.NewStore(appCfg.ContentDir).LoadBundle()
	if err != nil {
		log.Fatal().Err(err).Msg("content load failed")
	}

	leads, closeLeads, err := buildLeadSink(ctx, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("lead sink init failed")
	}
	defer closeLeads()

	var notify contractx.Notifier
	if strings.TrimSpace(appCfg.WebhookURL) != "" {
		webhookCfg := configx.MustNew[webhookx.Config]("WEBHOOK")
		notify = webhookx.MustNew(*webhookCfg)
	}

	registry := toolx.NewRegistry(bundle, leads, notify, time.Now)
	eng, err := enginex.New(ctx, registry, voicex.Logging{}, bundle.EntryScene, time.Now)
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}

	if *chatFlavor != "" {
		if err := runChat(ctx, eng, bundle, *chatFlavor); err != nil {
			log.Fatal().Err(err).Msg("chat session failed")
		}
		return
	}

	runServer(ctx, appCfg.HTTPAddr, apix.NewServer(eng).Routes())
}

func buildLeadSink(ctx context.Context, cfg *AppConfig) (contractx.LeadSink, func(), error) {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pgCfg := configx.MustNew[persistx.PostgresConfig]("POSTGRES")
		sink, err := persistx.NewBunLeadSink(ctx, *pgCfg)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {
			if closeErr := sink.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("lead sink close failed")
			}
		}, nil
	}

	return persistx.NewFileLeadSink(cfg.LeadsPath), func() {}, nil
}

func runServer(ctx context.Context, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// runChat drives one interactive console conversation against a fresh
// session, with the model calling tools through the engine.
func runChat(ctx context.Context, eng *enginex.Engine, bundle *contentx.Bundle, rawFlavor string) error {
	flavor, ok := statex.ParseFlavor(rawFlavor)
	if !ok {
		return fmt.Errorf("unknown flavor %q, want sdr, tutor or story", rawFlavor)
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	runner, err := llmx.NewRunner(*llmCfg, eng, promptx.LoadPromptSet())
	if err != nil {
		return err
	}

	sess, err := eng.CreateSession(uuid.NewString(), flavor)
	if err != nil {
		return err
	}
	defer func() {
		if endErr := eng.EndSession(sess.ID); endErr != nil {
			log.Error().Err(endErr).Msg("end session failed")
		}
	}()

	conv, err := runner.NewConversation(sess.ID, flavor, bundle.FAQJSON())
	if err != nil {
		return err
	}

	fmt.Printf("session %s (%s). Type a message, or 'exit' to quit.\n", sess.ID, flavor)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return nil
		}

		reply, err := conv.Say(ctx, line)
		if err != nil {
			return err
		}
		fmt.Println(reply)
	}
}
