// Package extract turns a photo of a document into record fields using a
// vision model.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/gravitrone/cocoon/internal/record"
)

var (
	// ErrUnparseable is returned when the model reply holds no JSON object.
	ErrUnparseable = errors.New("could not parse model response")
	// ErrNotImage is returned for files that are not images.
	ErrNotImage = errors.New("file is not an image")
)

// TextKey holds the raw text found in the image.
const TextKey = "text"

// Image is an encoded image and its MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Result is what a model extracted from one image.
type Result struct {
	Text     string
	Metadata record.Fields
}

// Extractor extracts document fields from an image.
type Extractor interface {
	Extract(ctx context.Context, img Image, docType string) (Result, error)
}

// LoadImage reads path and sniffs its MIME type.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return Image{}, fmt.Errorf("%w: %s (%s)", ErrNotImage, path, mime)
	}
	return Image{Data: data, MIMEType: mime}, nil
}

// Prompt is the instruction sent with the image.
func Prompt(docType string) string {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		docType = "document"
	}
	return fmt.Sprintf("This is a %s. Please analyze it and extract all relevant information. "+
		"Return your analysis as a JSON object where the keys are field names and values are the extracted information. "+
		`Include a "text" field with all raw text found in the image.`, docType)
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseResponse reads the model reply as a JSON object, falling back to the
// first fenced code block. The "text" key becomes Result.Text; the other keys
// stay in reply order.
func ParseResponse(reply string) (Result, error) {
	reply = strings.TrimSpace(reply)
	fields, err := decodeObject([]byte(reply))
	if err != nil {
		m := fencePattern.FindStringSubmatch(reply)
		if m == nil {
			return Result{}, fmt.Errorf("%w: no JSON object found", ErrUnparseable)
		}
		fields, err = decodeObject([]byte(strings.TrimSpace(m[1])))
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
	}

	text, _ := fields.Get(TextKey)
	fields.Delete(TextKey)
	return Result{Text: text, Metadata: fields}, nil
}

// ToRecord builds a new record from an extraction result. The "number" field
// becomes the default when present.
func ToRecord(res Result, docType, owner string) record.Record {
	rec := record.New(strings.TrimSpace(docType))
	rec.Owner = strings.TrimSpace(owner)
	rec.Fields = res.Metadata.Clone()
	if _, ok := rec.Fields.Get("number"); ok {
		rec.DefaultField = "number"
	} else if keys := rec.Fields.Keys(); len(keys) > 0 {
		rec.DefaultField = keys[0]
	}
	return rec
}

// decodeObject decodes a JSON object in document order. Non-string values are
// kept as their compact JSON text; nulls are dropped.
func decodeObject(data []byte) (record.Fields, error) {
	var out record.Fields
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return out, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return out, fmt.Errorf("expected JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return out, fmt.Errorf("field %q: %w", key, err)
		}
		value, ok := rawValue(raw)
		if !ok {
			continue
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return out, err
	}
	return out, nil
}

func rawValue(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed), true
	}
	return buf.String(), true
}
