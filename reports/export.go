package reports

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	FormatPDF = "PDF"
	FormatCSV = "CSV"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

//go:embed templates/report.html
var templateFS embed.FS

// Uploader stores a finished export somewhere durable and returns its URI.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// PDFConverter turns an html file into a pdf file.
type PDFConverter func(ctx context.Context, htmlPath, pdfPath string) error

type Result struct {
	Format   string `json:"format"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URI      string `json:"uri,omitempty"`
}

type Exporter struct {
	dir      string
	uploader Uploader
	convert  PDFConverter
	now      func() time.Time
}

func NewExporter(dir string, uploader Uploader) *Exporter {
	return &Exporter{dir: dir, uploader: uploader, convert: Wkhtmltopdf, now: time.Now}
}

// WithConverter replaces the pdf converter.
func (e *Exporter) WithConverter(convert PDFConverter) *Exporter {
	e.convert = convert
	return e
}

// NormalizeFormat upper-cases the format and rejects anything but PDF and CSV.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToUpper(strings.TrimSpace(format))
	if f != FormatPDF && f != FormatCSV {
		return "", ErrUnsupportedFormat
	}
	return f, nil
}

/*
* Flatten the report data into fields and tables
* Write it as CSV or render the html template and convert it to PDF
* Upload the file when an uploader is configured
 */
func (e *Exporter) Export(ctx context.Context, name string, data map[string]interface{}, format string) (*Result, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		log.Println("Error while creating report dir: ", err)
		return nil, err
	}

	doc := flatten(data)
	base := fmt.Sprintf("%s-%s", slug(name), e.now().UTC().Format("20060102-150405"))
	res := &Result{Format: f}

	var contentType string
	switch f {
	case FormatCSV:
		res.Filename = base + ".csv"
		res.Path = filepath.Join(e.dir, res.Filename)
		contentType = "text/csv"
		if err := writeCSV(res.Path, doc); err != nil {
			return nil, err
		}
	case FormatPDF:
		res.Filename = base + ".pdf"
		res.Path = filepath.Join(e.dir, res.Filename)
		contentType = "application/pdf"
		htmlPath := filepath.Join(e.dir, base+".html")
		defer removeIntermediate(htmlPath)
		if err := renderHTML(htmlPath, name, e.now(), doc); err != nil {
			return nil, err
		}
		if err := e.convert(ctx, htmlPath, res.Path); err != nil {
			log.Println("Error while converting report to pdf: ", err)
			return nil, err
		}
	}

	if e.uploader != nil {
		body, err := os.ReadFile(res.Path)
		if err != nil {
			return nil, err
		}
		uri, err := e.uploader.Upload(ctx, "reports/"+res.Filename, body, contentType)
		if err != nil {
			log.Println("Error while uploading report: ", err)
			return nil, err
		}
		res.URI = uri
	}
	return res, nil
}

type field struct {
	Key   string
	Value string
}

type table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

type document struct {
	Fields []field
	Tables []table
}

/*
* Scalars and nested objects become dotted key/value fields
* Lists of objects become tables, headers are the union of their keys
* Map keys are sorted so the output is stable
 */
func flatten(data map[string]interface{}) document {
	doc := document{}
	var walk func(prefix string, v interface{})
	walk = func(prefix string, v interface{}) {
		switch val := v.(type) {
		case map[string]interface{}:
			for _, k := range sortedKeys(val) {
				walk(join(prefix, k), val[k])
			}
		case []interface{}:
			if t, ok := toTable(prefix, val); ok {
				doc.Tables = append(doc.Tables, t)
				return
			}
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, scalar(item))
			}
			doc.Fields = append(doc.Fields, field{Key: prefix, Value: strings.Join(parts, "; ")})
		default:
			doc.Fields = append(doc.Fields, field{Key: prefix, Value: scalar(val)})
		}
	}
	for _, k := range sortedKeys(data) {
		walk(k, data[k])
	}
	return doc
}

func toTable(name string, items []interface{}) (table, bool) {
	if len(items) == 0 {
		return table{}, false
	}
	seen := map[string]bool{}
	headers := []string{}
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]interface{})
		if !ok {
			return table{}, false
		}
		for _, k := range sortedKeys(row) {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
		rows = append(rows, row)
	}
	t := table{Name: name, Headers: headers}
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = scalar(row[h])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, true
}

func writeCSV(path string, doc document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if len(doc.Fields) > 0 {
		w.Write([]string{"field", "value"})
		for _, f := range doc.Fields {
			w.Write([]string{f.Key, f.Value})
		}
	}
	for _, t := range doc.Tables {
		w.Write([]string{})
		w.Write([]string{t.Name})
		w.Write(t.Headers)
		for _, row := range t.Rows {
			w.Write(row)
		}
	}
	w.Flush()
	return w.Error()
}

func renderHTML(path, title string, at time.Time, doc document) error {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
	}
	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return errors.New("template parse error: " + err.Error())
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]interface{}{
		"Title":       title,
		"GeneratedAt": at.Format("02/01/2006 15:04"),
		"Fields":      doc.Fields,
		"Tables":      doc.Tables,
	})
	if err != nil {
		return errors.New("template execute error: " + err.Error())
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Wkhtmltopdf shells out to the wkhtmltopdf binary.
func Wkhtmltopdf(ctx context.Context, htmlPath, pdfPath string) error {
	cmd := exec.CommandContext(ctx,
		"wkhtmltopdf",
		"--enable-local-file-access",
		"--load-error-handling", "ignore",
		htmlPath,
		pdfPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.New("wkhtmltopdf error: " + err.Error() + " " + stderr.String())
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", val), "0"), ".")
	case map[string]interface{}, []interface{}:
		return fmt.Sprintf("%v", val)
	}
	return fmt.Sprintf("%v", v)
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "report"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func removeIntermediate(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("could not remove intermediate report file: ", err)
	}
}
