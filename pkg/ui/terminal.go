// Package ui provides the line-oriented terminal presenter.
//
// Every message is looked up by key in an embedded YAML catalog, so the
// session and the domain packages never carry user-facing text.
//
// Example usage:
//
//	catalog, err := ui.NewCatalog("en-US")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	term := ui.NewTerminal(catalog, ui.WithConfirmRetries(3))
//	s := session.New(book, notebook, term)
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/entrhq/rolodex/pkg/contacts"
	"github.com/entrhq/rolodex/pkg/notes"
	"github.com/entrhq/rolodex/pkg/session"
	"github.com/entrhq/rolodex/pkg/validate"
)

const (
	pathSeparator  = " > "
	contentPreview = 60
)

var _ session.Presenter = (*Terminal)(nil)

// Terminal reads answers from an input stream and renders messages, tables
// and prompts to an output stream.
type Terminal struct {
	reader  *bufio.Reader
	writer  io.Writer
	catalog *Catalog
	styles  styles
	retries int
	now     func() time.Time
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithInput sets the input stream (default is os.Stdin).
func WithInput(r io.Reader) Option {
	return func(t *Terminal) {
		t.reader = bufio.NewReader(r)
	}
}

// WithOutput sets the output stream (default is os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) {
		t.writer = w
	}
}

// WithConfirmRetries sets how many invalid yes/no answers are tolerated
// before a confirmation counts as cancelled.
func WithConfirmRetries(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.retries = n
		}
	}
}

// WithClock sets the clock used for "in N days" in birthday listings.
func WithClock(now func() time.Time) Option {
	return func(t *Terminal) {
		t.now = now
	}
}

// NewTerminal creates a presenter on stdin and stdout.
func NewTerminal(catalog *Catalog, opts ...Option) *Terminal {
	t := &Terminal{
		reader:  bufio.NewReader(os.Stdin),
		writer:  os.Stdout,
		catalog: catalog,
		retries: 3,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.styles = newStyles(lipgloss.NewRenderer(t.writer))
	return t
}

// Prompt shows the navigation path and the prompt for key, then reads one
// line. It returns io.EOF once the input is exhausted.
func (t *Terminal) Prompt(key string, path []string, params session.Params) (string, error) {
	fmt.Fprint(t.writer, t.promptLine(key, path, params))
	return t.readLine()
}

func (t *Terminal) promptLine(key string, path []string, params session.Params) string {
	var b strings.Builder
	if len(path) > 0 {
		b.WriteString(t.styles.path.Render(strings.Join(path, pathSeparator)))
		b.WriteString(pathSeparator)
	}
	b.WriteString(t.styles.prompt.Render(t.catalog.Text(key, params)))
	b.WriteString(": ")
	return b.String()
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(t.writer)
			return "", io.EOF
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. After the configured number of invalid
// answers, or on "menu", it reports ConfirmCancelled.
func (t *Terminal) Confirm(key string, path []string, params session.Params) (session.Confirmation, error) {
	t.Warning(key, params)
	for range t.retries {
		answer, err := t.Prompt("confirm_prompt", path, nil)
		if err != nil {
			return session.ConfirmCancelled, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return session.ConfirmYes, nil
		case "n", "no":
			return session.ConfirmNo, nil
		case "menu":
			return session.ConfirmCancelled, nil
		}
		t.Error("invalid_yes_no", nil)
	}
	return session.ConfirmCancelled, nil
}

// Success prints a confirmation of a completed change.
func (t *Terminal) Success(key string, params session.Params) {
	t.message(t.styles.success, "✓ ", key, params)
}

// Warning prints a non-fatal notice.
func (t *Terminal) Warning(key string, params session.Params) {
	t.message(t.styles.warning, "! ", key, params)
}

// Error prints a reported error.
func (t *Terminal) Error(key string, params session.Params) {
	t.message(t.styles.error, "✗ ", key, params)
}

// Info prints neutral information such as list titles.
func (t *Terminal) Info(key string, params session.Params) {
	t.message(t.styles.info, "", key, params)
}

func (t *Terminal) message(style lipgloss.Style, prefix, key string, params session.Params) {
	fmt.Fprintln(t.writer, style.Render(prefix+t.catalog.Text(key, params)))
}

// ShowContacts renders contacts as a numbered table. Phones and emails carry
// their 1-based position for the change and remove prompts.
func (t *Terminal) ShowContacts(list []*contacts.Contact) {
	rows := make([][]string, 0, len(list))
	for i, c := range list {
		birthday := ""
		if b, ok := c.Birthday(); ok {
			birthday = b.Format(validate.DateLayout)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Name(),
			numbered(c.Phones()),
			numbered(c.Emails()),
			birthday,
		})
	}
	t.render(rows, "column_index", "column_name", "column_phones", "column_emails", "column_birthday")
}

// ShowNotes renders notes as a numbered table with a content preview.
func (t *Terminal) ShowNotes(list []*notes.Note) {
	rows := make([][]string, 0, len(list))
	for i, n := range list {
		tags := make([]string, len(n.Tags()))
		for j, tag := range n.Tags() {
			tags[j] = "#" + tag
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			n.Title(),
			strings.Join(tags, " "),
			preview(n.Content()),
		})
	}
	t.render(rows, "column_index", "column_title", "column_tags", "column_content")
}

// ShowBirthdays prints one line per upcoming birthday with weekday names and
// the observed date when it moves off a weekend.
func (t *Terminal) ShowBirthdays(list []contacts.Birthday) {
	today := t.now()
	for _, b := range list {
		params := session.Params{
			"name":    b.Contact.Name(),
			"date":    b.Date.Format(validate.DateLayout),
			"weekday": b.Date.Weekday().String(),
			"days":    b.DaysUntil(today),
		}
		key := "birthday_on_day"
		if b.Celebration != nil {
			key = "birthday_adjusted"
			params["celebration"] = b.Celebration.Format(validate.DateLayout)
			params["celebration_weekday"] = b.Celebration.Weekday().String()
		}
		fmt.Fprintln(t.writer, "  "+t.catalog.Text(key, params))
	}
}

// ShowHelp lists the commands of the current menu.
func (t *Terminal) ShowHelp(entries []session.HelpEntry) {
	if len(entries) == 0 {
		t.Info("help_none", nil)
		return
	}

	fmt.Fprintln(t.writer, t.styles.title.Render(t.catalog.Text("help_title", nil)))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Command, t.catalog.Text(e.DescriptionKey, nil), e.Example})
	}
	t.render(rows, "column_command", "column_description", "column_example")
}

func (t *Terminal) render(rows [][]string, headerKeys ...string) {
	headers := make([]string, len(headerKeys))
	for i, key := range headerKeys {
		headers[i] = t.catalog.Text(key, nil)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.header
			}
			return t.styles.cell
		})
	fmt.Fprintln(t.writer, tbl.Render())
}

func numbered(values []string) string {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = fmt.Sprintf("[%d] %s", i+1, v)
	}
	return strings.Join(lines, "\n")
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= contentPreview {
		return content
	}
	runes := []rune(content)
	return string(runes[:contentPreview]) + "..."
}
