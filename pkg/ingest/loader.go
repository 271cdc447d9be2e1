package ingest

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProtocolFile is one loaded knowledge-base file, tag-stripped to plain text.
type ProtocolFile struct {
	Source  string // file name, used as citation provenance
	Content string
}

// LoadDirectory walks the knowledge-base directory and loads every protocol
// file it understands (.xml, .json, .txt, .md). Unreadable files are
// skipped with an error list so one corrupt protocol never blocks the rest.
func LoadDirectory(root string) ([]ProtocolFile, []error) {
	var files []ProtocolFile
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".xml", ".json", ".txt", ".md":
		default:
			return nil
		}

		content, loadErr := loadFile(path, ext)
		if loadErr != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, loadErr))
			return nil
		}
		if strings.TrimSpace(content) == "" {
			return nil
		}

		files = append(files, ProtocolFile{
			Source:  filepath.Base(path),
			Content: content,
		})
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}

	return files, errs
}

func loadFile(path, ext string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch ext {
	case ".xml":
		return stripXML(raw)
	case ".json":
		return flattenJSON(raw)
	default:
		return string(raw), nil
	}
}

// stripXML removes the tags and keeps the character data, the same shape
// structured protocols are authored in.
func stripXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(raw)))
	decoder.Strict = false

	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			text := strings.TrimSpace(string(cd))
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in XML")
	}
	return sb.String(), nil
}

// flattenJSON renders all string leaves of a JSON document, depth-first.
func flattenJSON(raw []byte) (string, error) {
	var root interface{}
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", err
	}

	var sb strings.Builder
	walkJSON(root, &sb)
	return sb.String(), nil
}

func walkJSON(node interface{}, sb *strings.Builder) {
	switch v := node.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			sb.WriteString(v)
			sb.WriteString("\n")
		}
	case []interface{}:
		for _, item := range v {
			walkJSON(item, sb)
		}
	case map[string]interface{}:
		// Sorted keys keep chunking deterministic across re-ingestions
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkJSON(v[k], sb)
		}
	}
}
