package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"pixiv-novel-downloader/config"
	"pixiv-novel-downloader/pixiv"
	"pixiv-novel-downloader/utils"
)

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Pixiv Novel Downloader API"})
	})

	novel := router.Group("/novel")
	{
		novel.GET("/search", s.searchNovels)
		novel.GET("/:id", s.getNovelInfo)
		novel.GET("/:id/content", s.getNovelContent)
		novel.GET("/:id/download", s.downloadNovel)
	}

	series := router.Group("/series")
	{
		series.GET("/:id", s.getSeriesInfo)
		series.GET("/:id/content", s.getSeriesContent)
		series.GET("/:id/download", s.downloadSeries)
	}

	router.POST("/auth/cookie", s.updateCookie)
	router.GET("/config", s.getConfig)
	router.GET("/version", s.getVersion)
}

func (s *Server) searchNovels(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	body, err := s.service.Search(c.Request.Context(), keyword, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) getNovelInfo(c *gin.Context) {
	body, err := s.service.GetNovelInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) getNovelContent(c *gin.Context) {
	novel, err := s.service.GetNovelContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, novel)
}

func (s *Server) downloadNovel(c *gin.Context) {
	format := c.DefaultQuery("format", pixiv.FormatTxt)
	blob, err := s.service.DownloadNovel(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		c.JSON(errorStatus(err, http.StatusBadRequest), gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", contentDisposition(blob.Filename, "novel.txt"))
	c.Data(http.StatusOK, blob.ContentType, blob.Content)
}

func (s *Server) getSeriesInfo(c *gin.Context) {
	series, err := s.service.GetSeriesInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err, http.StatusNotFound), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) getSeriesContent(c *gin.Context) {
	seriesID := c.Param("id")
	ids, err := s.service.GetSeriesNovelIDs(c.Request.Context(), seriesID)
	if err != nil {
		c.JSON(errorStatus(err, http.StatusNotFound), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"series_id": seriesID, "novel_ids": ids})
}

func (s *Server) downloadSeries(c *gin.Context) {
	mode := c.DefaultQuery("mode", pixiv.ModeSplit)
	archive, err := s.service.DownloadSeries(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		c.JSON(errorStatus(err, http.StatusBadRequest), gin.H{"error": err.Error()})
		return
	}

	fallback := "series.zip"
	if mode == pixiv.ModeMerge {
		fallback = "series.txt"
	}
	c.Header("Content-Disposition", contentDisposition(archive.Filename, fallback))
	c.Header("X-Skipped-Chapters", strconv.Itoa(len(archive.Skipped)))
	c.Data(http.StatusOK, archive.ContentType, archive.Content)
}

type cookieRequest struct {
	Cookie string `json:"cookie" binding:"required"`
}

// updateCookie reconfigures the gateway credential on the live session.
func (s *Server) updateCookie(c *gin.Context) {
	var req cookieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cookie is required"})
		return
	}
	s.client.UpdateCookie(req.Cookie)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"config": s.cfg})
}

func (s *Server) getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": config.Version})
}

// errorStatus maps taxonomy errors to HTTP statuses, falling back to the
// handler's default for everything else.
func errorStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, pixiv.ErrSeriesNotFound):
		return http.StatusNotFound
	case errors.Is(err, pixiv.ErrEmptySeries), errors.Is(err, pixiv.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return fallback
}

// contentDisposition builds an attachment header with an ASCII fallback name
// and the RFC 5987 encoded logical filename, stripped of quote and line-break
// characters.
func contentDisposition(filename, fallback string) string {
	safe := utils.SanitizeHeaderFilename(filename)
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(safe))
}
