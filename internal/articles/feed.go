package articles

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// FeedSource expone un feed RSS/Atom como colección de artículos. El id es la
// posición del item (desde 1) y el autor es el índice de su nombre entre los
// autores distintos del feed.
type FeedSource struct {
	url    string
	parser *gofeed.Parser
	logger *zap.Logger
}

func NewFeedSource(feedURL string, httpClient *http.Client, logger *zap.Logger) *FeedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	fp := gofeed.NewParser()
	fp.Client = httpClient
	return &FeedSource{url: feedURL, parser: fp, logger: logger}
}

func (f *FeedSource) List(ctx context.Context) ([]Article, error) {
	f.logger.Debug("🌐 Fetching feed", zap.String("url", f.url))
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("failed to fetch posts: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch posts: %w: %v", ErrFetchFailed, err)
	}
	return itemsToArticles(feed.Items), nil
}

// Get relee el feed completo; un feed no tiene endpoint por item.
func (f *FeedSource) Get(ctx context.Context, id int) (*Article, error) {
	items, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("failed to fetch post: %w", ErrNotFound)
}

func itemsToArticles(items []*gofeed.Item) []Article {
	authors := make(map[string]int)
	out := make([]Article, 0, len(items))

	for i, item := range items {
		name := itemAuthor(item)
		authorID, ok := authors[name]
		if !ok {
			authorID = len(authors) + 1
			authors[name] = authorID
		}

		body := item.Description
		if body == "" {
			body = item.Content
		}

		out = append(out, Article{
			ID:       i + 1,
			AuthorID: authorID,
			Title:    strings.TrimSpace(item.Title),
			Body:     PlainText(body),
		})
	}
	return out
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if item.Authors[0].Name != "" {
			return item.Authors[0].Name
		}
		return item.Authors[0].Email
	}
	return ""
}

// PlainText quita el marcado de un fragmento HTML y colapsa los espacios.
func PlainText(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return strings.TrimSpace(input)
	}

	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return strings.TrimSpace(input)
	}

	var builder strings.Builder
	extractText(node, &builder)
	return strings.Join(strings.Fields(builder.String()), " ")
}

func extractText(node *html.Node, builder *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
		if node.Data == "br" || node.Data == "p" || node.Data == "li" {
			builder.WriteRune(' ')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, builder)
	}
}
