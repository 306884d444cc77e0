// Package assistant wires configuration into a ready orchestrator: the
// language model, the mailbox, the editor, prompts and logging.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sant0-9/quill/internal/agent"
	"github.com/sant0-9/quill/internal/config"
	"github.com/sant0-9/quill/internal/editor"
	"github.com/sant0-9/quill/internal/llm"
	"github.com/sant0-9/quill/internal/mailbox"
	"github.com/sant0-9/quill/internal/mailbox/gmail"
	"github.com/sant0-9/quill/internal/mailbox/local"
	"github.com/sant0-9/quill/internal/orchestrator"
	"github.com/sant0-9/quill/internal/prompts"
)

type Options struct {
	Config *config.Config
	Logger *zap.Logger

	// In and Out carry the one-time Gmail authorization prompt.
	In  io.Reader
	Out io.Writer

	// Outbox receives messages "sent" by the stdout mailbox. Defaults to Out.
	Outbox io.Writer

	Getenv func(string) string
}

// Assistant is a wired orchestrator plus the resources it holds.
type Assistant struct {
	*orchestrator.Orchestrator

	Provider llm.Provider
	Mailbox  mailbox.Provider
	Editor   *editor.Editor
	Prompts  *prompts.Library

	closers []io.Closer
}

// Build validates the config and assembles every collaborator.
func Build(ctx context.Context, opts Options) (*Assistant, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("no config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lib, err := loadPrompts()
	if err != nil {
		return nil, err
	}

	a := &Assistant{
		Provider: provider,
		Editor:   editor.New(cfg.Editor.Command, getenv),
		Prompts:  lib,
	}

	mail, err := a.openMailbox(ctx, cfg, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Mailbox = mail

	a.Orchestrator = orchestrator.New(orchestrator.Config{
		LLM:       llm.NewClient(provider, cfg.Model, cfg.Temperature),
		Mailbox:   mail,
		Editor:    a.Editor,
		Prompts:   lib,
		Profile:   Profile(cfg.Profile),
		Overwrite: orchestrator.OverwritePolicy(cfg.Session.OverwritePolicy),
		Logger:    log,
	})

	log.Info("assistant ready",
		zap.String("provider", provider.Name()),
		zap.String("model", cfg.Model),
		zap.String("mailbox", mail.Name()),
	)
	return a, nil
}

// Profile converts the configured profile for the agents.
func Profile(p config.ProfileConfig) agent.Profile {
	return agent.Profile{
		Name:              p.DisplayName,
		Signature:         p.SignatureText(),
		Language:          p.DefaultEmailLanguage,
		ImportantSenders:  p.ImportantSenders,
		ImportantKeywords: p.ImportantKeywords,
	}
}

func loadPrompts() (*prompts.Library, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return prompts.Load("")
	}
	return prompts.Load(filepath.Join(dir, "prompts"))
}

func (a *Assistant) openMailbox(ctx context.Context, cfg *config.Config, opts Options) (mailbox.Provider, error) {
	switch cfg.Mailbox.Provider {
	case config.MailboxGmail:
		creds, token, err := cfg.GmailPaths()
		if err != nil {
			return nil, err
		}
		client, err := gmail.Authorize(ctx, creds, token, opts.In, opts.Out)
		if err != nil {
			return nil, err
		}
		return gmail.New(ctx, option.WithHTTPClient(client))

	case config.MailboxSES:
		ses := cfg.Mailbox.SES
		sender, err := local.NewSESSender(ctx, local.SESConfig{
			Region:          ses.Region,
			AccessKeyID:     ses.AccessKeyID,
			SecretAccessKey: ses.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return a.openStore(cfg, ses.Sender, sender)

	case config.MailboxStdout, "":
		out := opts.Outbox
		if out == nil {
			out = opts.Out
		}
		if out == nil {
			out = io.Discard
		}
		return a.openStore(cfg, cfg.Profile.Email, local.NewWriterSender(out))

	default:
		return nil, fmt.Errorf("unknown mailbox provider: %s", cfg.Mailbox.Provider)
	}
}

func (a *Assistant) openStore(cfg *config.Config, from string, sender local.Sender) (*local.Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	store, err := local.Open(path, from, sender)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)
	return store, nil
}

// Ping checks that the language model is reachable.
func (a *Assistant) Ping(ctx context.Context) error {
	return a.Provider.Ping(ctx)
}

// Close releases the mailbox store, if one was opened.
func (a *Assistant) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
