// Package content renders the optional markdown intro shown above the lots
// table.
package content

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the markdown is escaped by goldmark (WithUnsafe is not set);
// the policy is a second pass over what goldmark produces.
var (
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Linkify),
		goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
	)
	introPolicy = newIntroPolicy()
)

func newIntroPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "table")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Render converts markdown to sanitized HTML.
func Render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(introPolicy.Sanitize(buf.String())), nil
}

// LoadIntro reads and renders the intro file at path. An empty path yields
// an empty intro.
func LoadIntro(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read intro %s: %w", path, err)
	}
	return Render(data)
}
