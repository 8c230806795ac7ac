package report

import "encoding/json"

// Record is one metric record as returned inside a report file. The API
// does not commit to a fixed shape, so records stay open maps and
// consumers read only the fields they need.
type Record map[string]any

// Str returns the string value at key, or "" when the key is absent or
// holds a non-string value.
func (r Record) Str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Num returns the numeric value at key. Missing and non-numeric fields
// count as zero. JSON numbers decode as float64, but integers are kept
// working too for records built in code.
func (r Record) Num(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

// Envelope is the response of a metrics report endpoint: the report
// period, the links to the bulk report files, and, after Download has
// run, the records themselves. Unknown fields returned by the API are
// kept in Extra and survive a JSON round-trip.
type Envelope struct {
	ReportStartDay string
	ReportEndDay   string
	ReportDay      string
	DownloadLinks  []string
	// Data is nil until the download links have been fetched.
	Data []Record

	Extra map[string]json.RawMessage
}

const (
	keyReportStartDay = "report_start_day"
	keyReportEndDay   = "report_end_day"
	keyReportDay      = "report_day"
	keyDownloadLinks  = "download_links"
	keyData           = "data"
)

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	take := func(key string, out any) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		return json.Unmarshal(v, out)
	}

	if err := take(keyReportStartDay, &e.ReportStartDay); err != nil {
		return err
	}
	if err := take(keyReportEndDay, &e.ReportEndDay); err != nil {
		return err
	}
	if err := take(keyReportDay, &e.ReportDay); err != nil {
		return err
	}
	if err := take(keyDownloadLinks, &e.DownloadLinks); err != nil {
		return err
	}
	if err := take(keyData, &e.Data); err != nil {
		return err
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+5)
	for k, v := range e.Extra {
		out[k] = v
	}
	if e.ReportStartDay != "" {
		out[keyReportStartDay] = e.ReportStartDay
	}
	if e.ReportEndDay != "" {
		out[keyReportEndDay] = e.ReportEndDay
	}
	if e.ReportDay != "" {
		out[keyReportDay] = e.ReportDay
	}
	if e.DownloadLinks != nil {
		out[keyDownloadLinks] = e.DownloadLinks
	}
	if e.Data != nil {
		out[keyData] = e.Data
	}
	return json.Marshal(out)
}
