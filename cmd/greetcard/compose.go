package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"greetcard/internal/config"
	"greetcard/internal/domain"
	"greetcard/internal/messageclient"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/skip2/go-qrcode"
)

// Overridable in tests.
var (
	writeClipboard = clipboard.WriteAll
	now            = time.Now
)

type photoFlag []domain.PhotoInput

func (p *photoFlag) String() string {
	refs := make([]string, 0, len(*p))
	for _, in := range *p {
		refs = append(refs, in.URL)
	}
	return strings.Join(refs, ",")
}

// Set accepts "url" or "url|caption".
func (p *photoFlag) Set(value string) error {
	ref, caption, _ := strings.Cut(value, "|")
	if strings.TrimSpace(ref) == "" {
		return errors.New("photo reference is empty")
	}
	*p = append(*p, domain.PhotoInput{URL: strings.TrimSpace(ref), Caption: strings.TrimSpace(caption)})
	return nil
}

type composeOptions struct {
	serverURL string
	text      string
	recipient string
	updateID  string
	photos    photoFlag
	qr        bool
	copyLink  bool
	timeout   time.Duration
}

func parseComposeArgs(args []string, errOut io.Writer) (composeOptions, error) {
	fs := flag.NewFlagSet("greetcard compose", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: greetcard compose -message TEXT [-to NAME] [-photo URL[|caption]]...\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var opts composeOptions
	fs.StringVar(&opts.serverURL, "server-url", config.GetString(config.KeyServerURL), "Message service base URL")
	fs.StringVar(&opts.text, "message", "", "Message text (1-1000 characters)")
	fs.StringVar(&opts.recipient, "to", "", "Recipient name shown in the heading")
	fs.StringVar(&opts.updateID, "update", "", "Replace the text of an existing message instead of creating one")
	fs.Var(&opts.photos, "photo", "Photo URL or absolute path, optionally followed by |caption (repeatable)")
	fs.BoolVar(&opts.qr, "qr", false, "Print a QR code of the share link")
	fs.BoolVar(&opts.copyLink, "copy", false, "Copy the share link to the clipboard")
	fs.DurationVar(&opts.timeout, "timeout", messageclient.DefaultTimeout, "Request timeout")

	if err := fs.Parse(args); err != nil {
		return composeOptions{}, err
	}
	opts.serverURL = strings.TrimSpace(opts.serverURL)
	opts.updateID = strings.TrimSpace(opts.updateID)
	if opts.serverURL == "" {
		return composeOptions{}, errors.New("no service configured: pass -server-url or set server.url")
	}
	if strings.TrimSpace(opts.text) == "" {
		return composeOptions{}, errors.New("-message is required")
	}
	return opts, nil
}

// runCompose publishes a message and its photos, then prints a summary and
// how to play it.
func runCompose(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseComposeArgs(args, out)
	if err != nil {
		return err
	}
	if err := checkPhotos(opts.photos); err != nil {
		return err
	}
	client := messageclient.New(opts.serverURL, messageclient.WithTimeout(opts.timeout))
	input := domain.MessageInput{Text: opts.text, RecipientName: strings.TrimSpace(opts.recipient)}

	var msg domain.Message
	if opts.updateID != "" {
		msg, err = client.UpdateMessage(ctx, opts.updateID, input)
	} else {
		msg, err = client.CreateMessage(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	photos := make([]domain.Photo, 0, len(opts.photos))
	for _, in := range opts.photos {
		in.MessageID = msg.ID
		photo, err := client.AddPhoto(ctx, in)
		if err != nil {
			return fmt.Errorf("add photo %s to message %s (retry the remaining photos with: greetcard compose -update %s -message TEXT -photo URL): %w",
				in.URL, msg.ID, msg.ID, err)
		}
		photos = append(photos, photo)
	}

	link := shareLink(client.BaseURL(), msg.ID)
	printSummary(out, msg, photos, client.BaseURL())

	if opts.qr {
		qr, err := qrcode.New(link, qrcode.Medium)
		if err != nil {
			return fmt.Errorf("build QR code: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, qr.ToSmallString(false))
	}
	if opts.copyLink {
		if err := writeClipboard(link); err != nil {
			fmt.Fprintf(out, "Could not copy link: %v\n", err)
		} else {
			fmt.Fprintln(out, "Link copied to clipboard.")
		}
	}
	return nil
}

// checkPhotos applies the service's photo rules before anything is written,
// so a bad -photo never leaves a message behind.
func checkPhotos(photos []domain.PhotoInput) error {
	for _, in := range photos {
		in = in.Normalize()
		switch {
		case utf8.RuneCountInString(in.URL) > domain.MaxPhotoURLLength:
			return fmt.Errorf("photo %s: url must be %d characters or fewer", in.URL, domain.MaxPhotoURLLength)
		case !domain.IsPhotoRef(in.URL):
			return fmt.Errorf("photo %s: url must be an http(s) URL or an absolute path", in.URL)
		case utf8.RuneCountInString(in.Caption) > domain.MaxCaptionLength:
			return fmt.Errorf("photo %s: caption must be %d characters or fewer", in.URL, domain.MaxCaptionLength)
		}
	}
	return nil
}

func shareLink(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/api/message/" + id
}

func printSummary(out io.Writer, msg domain.Message, photos []domain.Photo, baseURL string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Message published")
	recipient := msg.RecipientName
	if recipient == "" {
		recipient = "-"
	}
	created := "-"
	if !msg.CreatedAt.IsZero() {
		created = humanize.RelTime(msg.CreatedAt, now(), "ago", "from now")
	}
	tw.AppendRows([]table.Row{
		{"ID", msg.ID},
		{"To", recipient},
		{"Length", fmt.Sprintf("%d characters", utf8.RuneCountInString(msg.Text))},
		{"Created", created},
		{"Photos", len(photos)},
		{"Link", shareLink(baseURL, msg.ID)},
	})
	tw.Render()

	if len(photos) > 0 {
		pw := table.NewWriter()
		pw.SetOutputMirror(out)
		pw.SetStyle(table.StyleRounded)
		pw.AppendHeader(table.Row{"#", "Photo", "Caption"})
		for i, p := range photos {
			pw.AppendRow(table.Row{i + 1, p.URL, p.Caption})
		}
		pw.Render()
	}

	fmt.Fprintf(out, "\nPlay it with:\n  greetcard -server-url %s -message-id %s\n", baseURL, msg.ID)
}
