package report

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Downloader fetches the bulk report files behind an envelope's
// download links. The links are pre-signed URLs, so requests carry no
// auth headers.
type Downloader struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewDownloader(logger *zap.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Download retrieves every link and concatenates the parsed records in
// link order, then intra-file order. A link that cannot be fetched is
// logged and dropped; the remaining links are still processed.
func (d *Downloader) Download(links []string) []Record {
	var all []Record
	for _, link := range links {
		body, err := d.fetch(link)
		if err != nil {
			d.logger.Warn("failed to download report file", zap.String("url", link), zap.Error(err))
			continue
		}

		res := parseBody(body)
		for _, lineErr := range res.lineErrors {
			d.logger.Warn("skipping malformed report line",
				zap.Int("line", lineErr.line), zap.Error(lineErr.err))
		}
		if res.outcome == unparseable {
			d.logger.Warn("report file contained no parseable records", zap.String("url", link))
		}
		all = append(all, res.records...)
	}
	return all
}

// Populate downloads the envelope's links and fills env.Data in place.
func (d *Downloader) Populate(env *Envelope) {
	if env == nil || len(env.DownloadLinks) == 0 {
		return
	}
	d.logger.Info("downloading report files", zap.Int("count", len(env.DownloadLinks)))
	env.Data = d.Download(env.DownloadLinks)
}

func (d *Downloader) fetch(url string) ([]byte, error) {
	resp, err := d.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseOutcome discriminates how a report file body was understood.
type parseOutcome int

const (
	parsedDocument parseOutcome = iota // one JSON value, object or array
	parsedLines                        // newline-delimited JSON records
	unparseable
)

type lineError struct {
	line int
	err  error
}

type parseResult struct {
	outcome    parseOutcome
	records    []Record
	lineErrors []lineError
}

// parseBody is the two-stage report file parser. Report files come
// either as a single JSON document (object or array of objects) or as
// JSON Lines with one record per line. Whole-document parsing is tried
// first; on failure each non-blank line is parsed independently and
// malformed lines are recorded, not fatal.
func parseBody(body []byte) parseResult {
	var val any
	if err := json.Unmarshal(body, &val); err == nil {
		switch v := val.(type) {
		case []any:
			records := make([]Record, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					records = append(records, Record(m))
				}
			}
			return parseResult{outcome: parsedDocument, records: records}
		case map[string]any:
			return parseResult{outcome: parsedDocument, records: []Record{Record(v)}}
		}
		return parseResult{outcome: parsedDocument}
	}

	res := parseResult{outcome: parsedLines}
	lineNo := 0
	for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
		lineNo++
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			res.lineErrors = append(res.lineErrors, lineError{line: lineNo, err: err})
			continue
		}
		res.records = append(res.records, rec)
	}
	if res.records == nil {
		res.outcome = unparseable
	}
	return res
}
