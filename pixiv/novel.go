package pixiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"pixiv-novel-downloader/model"
)

const (
	FormatTxt = "txt"

	// pageBreakMarker is the platform's in-text page boundary token.
	pageBreakMarker  = "[newpage]"
	pageBreakDivider = "\n\n========== Next Page ==========\n\n"
)

// utf8BOM makes third-party text editors detect the encoding of downloaded
// files correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Service exposes the novel and series operations of the pixiv ajax API on
// top of an injected gateway client.
type Service struct {
	client *Client
}

func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Search queries novels by keyword (tag match, newest first) and returns the
// raw result body for the caller to relay.
func (s *Service) Search(ctx context.Context, keyword string, page int) (json.RawMessage, error) {
	log.Debug("searching novels", "keyword", keyword, "page", page)
	body, err := s.client.FetchJSON(ctx, "/search/novels/"+url.PathEscape(keyword), map[string]string{
		"word":   keyword,
		"p":      strconv.Itoa(page),
		"s_mode": "s_tag",
		"order":  "date_d",
		"mode":   "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search novels: %w", err)
	}
	return body, nil
}

// GetNovelInfo returns the raw metadata body of a single novel.
func (s *Service) GetNovelInfo(ctx context.Context, novelID string) (json.RawMessage, error) {
	log.Debug("getting novel info", "id", novelID)
	body, err := s.client.FetchJSON(ctx, "/novel/"+novelID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get novel %s: %w", novelID, err)
	}
	return body, nil
}

type novelBody struct {
	Title    string `json:"title"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

// GetNovelContent fetches one novel and projects it to title, author, and raw
// text. Missing optional fields fall back to placeholders.
func (s *Service) GetNovelContent(ctx context.Context, novelID string) (*model.Novel, error) {
	body, err := s.GetNovelInfo(ctx, novelID)
	if err != nil {
		return nil, err
	}

	var nb novelBody
	if err := json.Unmarshal(body, &nb); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode novel %s: %w", novelID, err)}
	}

	novel := &model.Novel{
		ID:      novelID,
		Title:   nb.Title,
		Author:  nb.UserName,
		Content: nb.Content,
	}
	if novel.Title == "" {
		novel.Title = "Untitled"
	}
	if novel.Author == "" {
		novel.Author = "Unknown"
	}
	return novel, nil
}

// formatNovel is the pure text transformation applied to every downloaded
// chapter: page-break markers become visible dividers and a title/author
// header is prepended.
func formatNovel(novel *model.Novel) string {
	content := strings.ReplaceAll(novel.Content, pageBreakMarker, pageBreakDivider)
	return fmt.Sprintf("Title: %s\nAuthor: %s\n\n%s", novel.Title, novel.Author, content)
}

// DownloadNovel fetches and formats one novel as a plain-text blob. Only the
// txt format is supported.
func (s *Service) DownloadNovel(ctx context.Context, novelID string, format string) (*model.Blob, error) {
	if format != FormatTxt {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	novel, err := s.GetNovelContent(ctx, novelID)
	if err != nil {
		return nil, err
	}

	text := formatNovel(novel)
	content := make([]byte, 0, len(utf8BOM)+len(text))
	content = append(content, utf8BOM...)
	content = append(content, text...)

	return &model.Blob{
		Filename:    novel.Title + ".txt",
		Content:     content,
		ContentType: "text/plain",
	}, nil
}
