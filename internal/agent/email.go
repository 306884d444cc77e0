package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sant0-9/quill/internal/llm"
	"github.com/sant0-9/quill/internal/mailbox"
	"github.com/sant0-9/quill/internal/prompts"
)

const (
	MissingRecipientMarker = "[NEEDS USER INPUT: recipient email]"

	DefaultRegenerateInstruction = "Rewrite the email with the same intent, concise and polite."
	DefaultSubject               = "(no subject)"

	SummaryDays  = 7
	SummaryLimit = 10
	SummaryTop   = 5
)

// ErrEmptyBody is returned when the model writes nothing usable. No provider
// draft exists when it is returned.
var ErrEmptyBody = errors.New("model returned an empty email body")

// UrgencyWords each add to a header's score when found in its subject.
var UrgencyWords = []string{"urgent", "asap", "deadline", "due", "quiz", "midterm", "final"}

const (
	senderWeight  = 5
	keywordWeight = 3
	urgencyWeight = 2
)

// Email drafts, revises and summarizes mail. It calls the mailbox for
// listing and draft creation only; updates and sends are the caller's.
type Email struct {
	llm     Chatter
	mail    mailbox.Provider
	profile Profile
	prompts *prompts.Library
}

func NewEmail(c Chatter, mail mailbox.Provider, profile Profile, lib *prompts.Library) *Email {
	return &Email{llm: c, mail: mail, profile: profile, prompts: lib}
}

// Score ranks a header by the profile's important senders and keywords and
// by urgency words in the subject.
func Score(h mailbox.Header, p Profile) int {
	s := 0
	from := strings.ToLower(h.From)
	for _, sender := range p.ImportantSenders {
		if sender != "" && strings.Contains(from, strings.ToLower(sender)) {
			s += senderWeight
			break
		}
	}
	subj := strings.ToLower(h.Subject)
	for _, k := range p.ImportantKeywords {
		if k != "" && strings.Contains(subj, strings.ToLower(k)) {
			s += keywordWeight
			break
		}
	}
	for _, w := range UrgencyWords {
		if strings.Contains(subj, w) {
			s += urgencyWeight
		}
	}
	return s
}

// Rank orders headers by score, highest first, keeping the provider's order
// among equal scores.
func Rank(headers []mailbox.Header, p Profile) []mailbox.Header {
	out := append([]mailbox.Header(nil), headers...)
	sort.SliceStable(out, func(i, j int) bool {
		return Score(out[i], p) > Score(out[j], p)
	})
	return out
}

func formatHeaders(headers []mailbox.Header) string {
	if len(headers) == 0 {
		return "no email received"
	}
	var b strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&b, "%d. From: %s\n   Date: %s\n   Subject: %s\n   Snippet: %s\n", i+1, h.From, h.Date, h.Subject, h.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}

// SummarizeInbox lists recent mail, keeps the highest ranked and asks the
// model for a summary with next steps.
func (e *Email) SummarizeInbox(ctx context.Context, request string) (*Result, error) {
	headers, err := e.mail.ListRecent(ctx, mailbox.ListOptions{Limit: SummaryLimit, Days: SummaryDays})
	if err != nil {
		return nil, err
	}
	ranked := Rank(headers, e.profile)
	if len(ranked) > SummaryTop {
		ranked = ranked[:SummaryTop]
	}

	user := fmt.Sprintf("Request: %s\n\nThese are my recent emails:\n\n%s", request, formatHeaders(ranked))
	content, msgs, err := complete(ctx, e.llm, e.prompts, prompts.SummarizeInbox, e.profile.data(), user)
	if err != nil {
		return nil, err
	}
	return &Result{Content: content, Messages: msgs}, nil
}

// Drafted is a draft that exists at the mailbox provider.
type Drafted struct {
	To         string
	Subject    string
	Body       string
	ExternalID string
	Messages   []llm.Message
}

// DraftStructured writes a body for an explicit recipient and subject and
// creates the provider draft. A blank body yields ErrEmptyBody before the
// provider is called.
func (e *Email) DraftStructured(ctx context.Context, to, subject, intent string) (*Drafted, error) {
	user := fmt.Sprintf("To: %s\nSubject: %s\nIntent: %s\nGenerate the email body now.", to, subject, intent)
	body, msgs, err := complete(ctx, e.llm, e.prompts, prompts.DraftBody, e.profile.data(), user)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	id, err := e.mail.CreateDraft(ctx, mailbox.Message{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, err
	}
	return &Drafted{To: to, Subject: subject, Body: body, ExternalID: id, Messages: msgs}, nil
}

// FreeTextStatus is how a free-text drafting attempt ended.
type FreeTextStatus int

const (
	// FreeTextCreated means a provider draft exists.
	FreeTextCreated FreeTextStatus = iota
	// FreeTextNeedsRecipient means the body was written but no address is known.
	FreeTextNeedsRecipient
	// FreeTextUnparsed means the model did not return the expected object.
	FreeTextUnparsed
)

type FreeTextOutcome struct {
	Status  FreeTextStatus
	Draft   *Drafted
	Subject string
	// Content is the body, or the raw model text when unparsed.
	Content  string
	Messages []llm.Message
}

type draftFields struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftFreeText asks the model for recipient, subject and body as JSON. When
// the model leaves the recipient empty, fallback and then any address found
// in text are used. A draft is created only once a recipient is resolved.
func (e *Email) DraftFreeText(ctx context.Context, text, fallback string) (*FreeTextOutcome, error) {
	user := fmt.Sprintf("User request:\n%s\n\nGenerate JSON now.", text)
	raw, msgs, err := complete(ctx, e.llm, e.prompts, prompts.DraftJSON, e.profile.data(), user)
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)

	var f draftFields
	if err := llm.DecodeJSON(raw, &f); err != nil {
		content := raw
		if content == "" {
			content = MissingRecipientMarker
		}
		return &FreeTextOutcome{Status: FreeTextUnparsed, Content: content, Messages: msgs}, nil
	}

	to := strings.TrimSpace(f.To)
	if to == "" {
		to = strings.TrimSpace(fallback)
	}
	if to == "" {
		to = ExtractAddress(text)
	}
	subject := strings.TrimSpace(f.Subject)
	body := strings.TrimSpace(f.Body)

	if to == "" {
		if !strings.Contains(body, "[NEEDS USER INPUT") {
			body = strings.TrimSpace(body + "\n\n" + MissingRecipientMarker)
		}
		return &FreeTextOutcome{Status: FreeTextNeedsRecipient, Subject: subject, Content: body, Messages: msgs}, nil
	}

	body = strings.TrimSpace(strings.ReplaceAll(body, MissingRecipientMarker, ""))
	if body == "" {
		return &FreeTextOutcome{Status: FreeTextUnparsed, Content: raw, Messages: msgs}, nil
	}
	if subject == "" {
		subject = DefaultSubject
	}

	id, err := e.mail.CreateDraft(ctx, mailbox.Message{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, err
	}
	return &FreeTextOutcome{
		Status:   FreeTextCreated,
		Draft:    &Drafted{To: to, Subject: subject, Body: body, ExternalID: id, Messages: msgs},
		Subject:  subject,
		Content:  body,
		Messages: msgs,
	}, nil
}

// EditBody applies instruction to body and returns only the revised body.
func (e *Email) EditBody(ctx context.Context, to, subject, body, instruction string) (string, error) {
	data := e.profile.data()
	data.To, data.Subject, data.Body, data.Instruction = to, subject, body, instruction
	out, _, err := complete(ctx, e.llm, e.prompts, prompts.EditBody, data, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RegenerateBody rewrites the email from scratch, using reference only for
// intent. An empty instruction uses DefaultRegenerateInstruction.
func (e *Email) RegenerateBody(ctx context.Context, to, subject, reference, instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		instruction = DefaultRegenerateInstruction
	}
	data := e.profile.data()
	data.To, data.Subject, data.Body, data.Instruction = to, subject, reference, instruction
	out, _, err := complete(ctx, e.llm, e.prompts, prompts.RegenerateBody, data, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
