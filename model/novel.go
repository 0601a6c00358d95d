package model

// Novel is a single fetched chapter: the unit of content addressable by id on
// the remote platform. Immutable once built by the fetcher.
type Novel struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

type Series struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	UserID       string   `json:"userId"`
	UserName     string   `json:"userName"`
	Caption      string   `json:"caption"`
	Tags         []string `json:"tags"`
	IsConcluded  bool     `json:"isConcluded"`
	ChapterCount int      `json:"displaySeriesContentCount"`
	CoverURL     string   `json:"cover,omitempty"`
	CreateDate   string   `json:"createDate,omitempty"`
	UpdateDate   string   `json:"updateDate,omitempty"`
}

// SeriesPage is one pagination round of a series listing. Not retained after
// its ids are appended to the accumulator.
type SeriesPage struct {
	IDs        []string
	IsLastPage bool
}

// Blob is a complete, self-contained downloadable document.
type Blob struct {
	Filename    string
	Content     []byte
	ContentType string
}

type SkippedChapter struct {
	NovelID string `json:"novelId"`
	Reason  string `json:"reason"`
}

// SeriesArchive is the assembler output: the archive blob plus the chapters
// that were dropped from it and why.
type SeriesArchive struct {
	Blob
	Skipped []SkippedChapter
}
