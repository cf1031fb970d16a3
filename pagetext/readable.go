package pagetext

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we
// assume the algorithm failed to find the main content and fall back to
// the full page, which on staff/directory pages is often the right call
// anyway: readability tends to discard list-shaped content.
const minContentLength = 50

// mdConverter is goroutine-safe and reused for every page.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
		),
	),
)

// readableMarkdown runs Mozilla Readability on rawHTML and converts the
// readable portion to markdown. Any failure falls back to converting the
// raw HTML; the pipeline never fails because readability choked.
func readableMarkdown(rawHTML, sourceURL string) string {
	content := rawHTML

	if parsed, err := nurl.Parse(sourceURL); err == nil {
		article, rerr := readability.FromReader(strings.NewReader(rawHTML), parsed)
		if rerr == nil && len(strings.TrimSpace(article.TextContent)) >= minContentLength {
			content = article.Content
		}
	}

	domain := ""
	if parsed, err := nurl.Parse(sourceURL); err == nil {
		domain = parsed.Scheme + "://" + parsed.Host
	}

	md, err := mdConverter.ConvertString(content, converter.WithDomain(domain))
	if err != nil {
		slog.Debug("markdown conversion failed", "url", sourceURL, "error", err)
		return ""
	}
	return md
}
