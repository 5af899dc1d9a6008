package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"greetcard/internal/sequence"
	"greetcard/internal/ui"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const plainWidth = 72

// runPlain prints every stage of the script in order, for pipes and dumb
// terminals. Nothing is animated and no tones are played.
func runPlain(ctx context.Context, w io.Writer, script sequence.Script, g ui.Greeter) error {
	greeting, err := g.Resolve(ctx)
	if err != nil {
		fmt.Fprintln(w, "Message unavailable.")
		return err
	}
	c := script.Copy

	var b strings.Builder
	for _, stage := range script.Stages {
		switch stage {
		case sequence.StageWelcome:
			b.WriteString(c.Welcome + "\n")
		case sequence.StageIntro:
			b.WriteString(wordwrap.String(c.Intro, plainWidth) + "\n")
		case sequence.StageBalloons:
			heading := c.Heading
			if name := strings.TrimSpace(greeting.Message.RecipientName); name != "" {
				heading += ", " + strings.ToUpper(name)
			}
			b.WriteString(heading + "\n")
		case sequence.StageMessage:
			b.WriteString(c.MessageTitle + "\n\n")
			b.WriteString(indent.String(wordwrap.String(greeting.Message.Text, plainWidth-2), 2) + "\n")
		case sequence.StagePhotos:
			b.WriteString(c.PhotosTitle + "\n")
			if len(greeting.Photos) == 0 {
				b.WriteString("  (no photos)\n")
			}
			for i, ref := range greeting.Photos {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, ref)
			}
		case sequence.StageFinal:
			b.WriteString(c.Final + "\n")
		case sequence.StageOutro:
			b.WriteString(strings.Join(c.Outro, "\n") + "\n")
		}
		b.WriteString("\n")
	}
	_, err = io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}
