// ABOUTME: Builds the plain-text share payload for a habit and hands it to a share target
// ABOUTME: Targets are the system clipboard, any io.Writer, and an HTML rendering via goldmark

// Package share turns a habit into a one-way message for other applications.
// Sharing never changes the habit.
package share

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"

	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/store"
)

// Message is a share payload.
type Message struct {
	Subject string
	Text    string
}

// Payload builds the message for h. The description line is omitted when the
// description is nil or empty.
func Payload(h *store.Habit, loc locale.Locale) Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", loc.ShareHabit, h.Name)
	if desc := h.DescriptionText(); desc != "" {
		fmt.Fprintf(&sb, "%s %s\n", loc.ShareDescription, desc)
	}
	status := loc.StatusInProgress
	if h.Completed {
		status = loc.StatusCompleted
	}
	fmt.Fprintf(&sb, "%s %s", loc.ShareStatus, status)

	return Message{Subject: loc.ShareSubject, Text: sb.String()}
}

// Sharer delivers a message somewhere outside the application.
type Sharer interface {
	Share(ctx context.Context, msg Message) error
}

// ClipboardSharer copies the message text to the system clipboard.
type ClipboardSharer struct {
	// write defaults to clipboard.WriteAll; replaced in tests.
	write func(string) error
}

// NewClipboardSharer returns a sharer backed by the system clipboard.
func NewClipboardSharer() *ClipboardSharer {
	return &ClipboardSharer{write: clipboard.WriteAll}
}

// Available reports whether a clipboard utility was found.
func (c *ClipboardSharer) Available() bool {
	return !clipboard.Unsupported
}

// Share implements Sharer.
func (c *ClipboardSharer) Share(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(msg.Text); err != nil {
		return fmt.Errorf("writing to clipboard: %w", err)
	}
	return nil
}

// WriterSharer prints the message to W, as plain text or as HTML.
type WriterSharer struct {
	W    io.Writer
	HTML bool
}

// Share implements Sharer.
func (w *WriterSharer) Share(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.HTML {
		out, err := HTML(msg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w.W, out)
		return err
	}
	_, err := fmt.Fprintf(w.W, "%s\n\n%s\n", msg.Subject, msg.Text)
	return err
}

// HTML renders the message as an HTML fragment: the subject as a heading and
// each text line as its own line of a paragraph. User text is escaped so it
// cannot introduce markup.
func HTML(msg Message) (string, error) {
	var md strings.Builder
	md.WriteString("## " + escapeMarkdown(msg.Subject) + "\n\n")

	lines := strings.Split(msg.Text, "\n")
	for i, line := range lines {
		md.WriteString(escapeMarkdown(line))
		if i < len(lines)-1 {
			// Backslash at end of line is a hard line break
			md.WriteString("\\\n")
		}
	}
	md.WriteString("\n")

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return "", fmt.Errorf("rendering share html: %w", err)
	}
	return buf.String(), nil
}

// escapeMarkdown backslash-escapes every ASCII punctuation character.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
