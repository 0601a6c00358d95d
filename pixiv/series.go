package pixiv

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"pixiv-novel-downloader/model"
	"pixiv-novel-downloader/utils"
)

const (
	ModeSplit = "split"
	ModeMerge = "merge"

	// seriesPageSize is the fixed pagination window of the series_content
	// endpoint.
	seriesPageSize = 30
)

// flexibleID accepts both string and numeric identifiers, which the remote
// API mixes across endpoints.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type seriesBody struct {
	ID           flexibleID `json:"id"`
	Title        string     `json:"title"`
	UserID       flexibleID `json:"userId"`
	UserName     string     `json:"userName"`
	Caption      string     `json:"caption"`
	Tags         []string   `json:"tags"`
	IsConcluded  bool       `json:"isConcluded"`
	ContentCount int        `json:"displaySeriesContentCount"`
	Cover        struct {
		Urls struct {
			Original string `json:"original"`
		} `json:"urls"`
	} `json:"cover"`
	CreateDate string `json:"createDate"`
	UpdateDate string `json:"updateDate"`
}

// GetSeriesInfo fetches series metadata. A remote rejection here means the
// series does not exist for this session and is terminal for any listing.
func (s *Service) GetSeriesInfo(ctx context.Context, seriesID string) (*model.Series, error) {
	log.Debug("getting series info", "id", seriesID)
	body, err := s.client.FetchJSON(ctx, "/novel/series/"+seriesID, nil)
	if err != nil {
		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, remoteErr.Message)
		}
		return nil, fmt.Errorf("failed to get series %s: %w", seriesID, err)
	}

	var sb seriesBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode series %s: %w", seriesID, err)}
	}

	series := &model.Series{
		ID:           string(sb.ID),
		Title:        sb.Title,
		UserID:       string(sb.UserID),
		UserName:     sb.UserName,
		Caption:      utils.StripHTML(sb.Caption),
		Tags:         sb.Tags,
		IsConcluded:  sb.IsConcluded,
		ChapterCount: sb.ContentCount,
		CoverURL:     sb.Cover.Urls.Original,
		CreateDate:   sb.CreateDate,
		UpdateDate:   sb.UpdateDate,
	}
	if series.ID == "" {
		series.ID = seriesID
	}
	return series, nil
}

type seriesPageBody struct {
	Page struct {
		SeriesContents []struct {
			ID flexibleID `json:"id"`
		} `json:"seriesContents"`
		IsLastPage bool `json:"isLastPage"`
	} `json:"page"`
}

// getSeriesPage fetches a single pagination round, ascending order, starting
// at the given offset.
func (s *Service) getSeriesPage(ctx context.Context, seriesID string, offset int) (*model.SeriesPage, error) {
	body, err := s.client.FetchJSON(ctx, "/novel/series_content/"+seriesID, map[string]string{
		"limit":      strconv.Itoa(seriesPageSize),
		"last_order": strconv.Itoa(offset),
		"order_by":   "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get series page at offset %d: %w", offset, err)
	}

	var pb seriesPageBody
	if err := json.Unmarshal(body, &pb); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode series page: %w", err)}
	}

	page := &model.SeriesPage{
		IDs:        make([]string, 0, len(pb.Page.SeriesContents)),
		IsLastPage: pb.Page.IsLastPage,
	}
	for _, item := range pb.Page.SeriesContents {
		page.IDs = append(page.IDs, string(item.ID))
	}
	return page, nil
}

// GetSeriesNovelIDs resolves the full ordered novel id list of a series.
func (s *Service) GetSeriesNovelIDs(ctx context.Context, seriesID string) ([]string, error) {
	series, err := s.GetSeriesInfo(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	return s.listNovelIDs(ctx, series)
}

// listNovelIDs walks the paginated listing in increasing offset order until
// the declared chapter count is reached, the remote reports the last page, or
// a page fetch fails. A mid-pagination failure truncates the list rather than
// failing it: the series is treated as partially available.
func (s *Service) listNovelIDs(ctx context.Context, series *model.Series) ([]string, error) {
	if series.ChapterCount <= 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, series.ChapterCount)
	for offset := 0; len(ids) < series.ChapterCount; offset += seriesPageSize {
		page, err := s.getSeriesPage(ctx, series.ID, offset)
		if err != nil {
			log.Warn("series listing truncated", "series", series.ID, "offset", offset, "collected", len(ids), "error", err)
			break
		}
		ids = append(ids, page.IDs...)
		if page.IsLastPage {
			break
		}
	}
	return ids, nil
}

// DownloadSeries assembles every chapter of a series into one downloadable
// blob: a zip with one txt per chapter (split) or a single concatenated txt
// (merge). Chapters that fail to fetch are skipped and reported in the
// result; they never abort the assembly.
func (s *Service) DownloadSeries(ctx context.Context, seriesID string, mode string) (*model.SeriesArchive, error) {
	if mode != ModeSplit && mode != ModeMerge {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mode)
	}

	series, err := s.GetSeriesInfo(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	ids, err := s.listNovelIDs(ctx, series)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySeries, seriesID)
	}

	log.Info("downloading series", "id", series.ID, "title", series.Title, "chapters", len(ids), "mode", mode)
	if mode == ModeMerge {
		return s.assembleMerge(ctx, series, ids)
	}
	return s.assembleSplit(ctx, series, ids)
}

// assembleSplit builds a deflate-compressed zip with one entry per surviving
// chapter. Entry names carry a 3-digit prefix taken from the chapter's
// position in the original id list, so skipped chapters leave visible gaps
// in the numbering.
func (s *Service) assembleSplit(ctx context.Context, series *model.Series, ids []string) (*model.SeriesArchive, error) {
	buf := &bytes.Buffer{}
	zipWriter := zip.NewWriter(buf)
	archive := &model.SeriesArchive{}

	for idx, novelID := range ids {
		blob, err := s.DownloadNovel(ctx, novelID, FormatTxt)
		if err != nil {
			log.Warn("skipping chapter", "series", series.ID, "novel", novelID, "error", err)
			archive.Skipped = append(archive.Skipped, model.SkippedChapter{NovelID: novelID, Reason: err.Error()})
			continue
		}
		name := fmt.Sprintf("%03d_%s", idx+1, blob.Filename)
		if err := addEntryToZip(zipWriter, name, blob.Content); err != nil {
			return nil, fmt.Errorf("failed to add archive entry: %w", err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	archive.Blob = model.Blob{
		Filename:    fmt.Sprintf("%s_%s.zip", series.ID, series.Title),
		Content:     buf.Bytes(),
		ContentType: "application/zip",
	}
	return archive, nil
}

// assembleMerge concatenates the formatted text of every surviving chapter,
// each preceded by a separator carrying its original list position, and
// prefixes the whole document with a single byte-order marker.
func (s *Service) assembleMerge(ctx context.Context, series *model.Series, ids []string) (*model.SeriesArchive, error) {
	builder := strings.Builder{}
	archive := &model.SeriesArchive{}

	for idx, novelID := range ids {
		novel, err := s.GetNovelContent(ctx, novelID)
		if err != nil {
			log.Warn("skipping chapter", "series", series.ID, "novel", novelID, "error", err)
			archive.Skipped = append(archive.Skipped, model.SkippedChapter{NovelID: novelID, Reason: err.Error()})
			continue
		}
		builder.WriteString(fmt.Sprintf("\n\n--- #%d ---\n\n", idx+1))
		builder.WriteString(formatNovel(novel))
	}

	text := builder.String()
	content := make([]byte, 0, len(utf8BOM)+len(text))
	content = append(content, utf8BOM...)
	content = append(content, text...)

	archive.Blob = model.Blob{
		Filename:    fmt.Sprintf("%s_%s.txt", series.ID, series.Title),
		Content:     content,
		ContentType: "text/plain",
	}
	return archive, nil
}

func addEntryToZip(zipWriter *zip.Writer, name string, content []byte) error {
	header := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = writer.Write(content)
	return err
}
