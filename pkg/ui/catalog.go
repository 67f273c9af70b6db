package ui

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is the catalog every other locale falls back to.
const DefaultLocale = "en-US"

//go:embed messages/*.yaml
var messageFS embed.FS

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Catalog renders message keys as text in one locale. Keys missing from the
// locale are rendered from the default catalog.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

// Locales lists the embedded catalogs, default first.
func Locales() ([]language.Tag, error) {
	files, err := fs.Glob(messageFS, "messages/*.yaml")
	if err != nil {
		return nil, err
	}

	tags := []language.Tag{language.MustParse(DefaultLocale)}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".yaml")
		if name == DefaultLocale {
			continue
		}
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", file, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// NewCatalog loads the embedded catalog closest to locale. An empty or
// unsupported locale yields the default catalog; a malformed one is an error.
func NewCatalog(locale string) (*Catalog, error) {
	fallback, err := readMessages(DefaultLocale)
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		tag:      language.MustParse(DefaultLocale),
		messages: fallback,
		fallback: fallback,
	}
	if locale == "" {
		return c, nil
	}

	want, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	available, err := Locales()
	if err != nil {
		return nil, err
	}

	_, idx, confidence := language.NewMatcher(available).Match(want)
	if confidence == language.No || idx == 0 {
		return c, nil
	}

	c.tag = available[idx]
	c.messages, err = readMessages(c.tag.String())
	if err != nil {
		return nil, err
	}
	return c, nil
}

func readMessages(locale string) (map[string]string, error) {
	data, err := messageFS.ReadFile("messages/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", locale, err)
	}
	messages := make(map[string]string)
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", locale, err)
	}
	return messages, nil
}

// Locale returns the tag the catalog was loaded for.
func (c *Catalog) Locale() language.Tag {
	return c.tag
}

// Has reports whether key is defined in the catalog or its fallback.
func (c *Catalog) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Keys returns the sorted keys of the default catalog.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.fallback))
	for k := range c.fallback {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (c *Catalog) lookup(key string) (string, bool) {
	if text, ok := c.messages[key]; ok {
		return text, true
	}
	text, ok := c.fallback[key]
	return text, ok
}

// Text renders key with params substituted for {name} placeholders.
// Placeholders without a parameter are left as they are.
func (c *Catalog) Text(key string, params map[string]any) string {
	template, ok := c.lookup(key)
	if !ok {
		template, _ = c.lookup("unknown_message")
		params = map[string]any{"key": key}
	}
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		value, ok := params[match[1:len(match)-1]]
		if !ok {
			return match
		}
		return fmt.Sprint(value)
	})
}
