package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/asciimotion/internal/adjust"
	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/pipeline"
)

const metadataFile = "metadata.json"

// Store is a library of conversions, one sub-directory each.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// Metadata records how a conversion was produced.
type Metadata struct {
	ID           string             `json:"id"`
	Source       string             `json:"source"`
	Timestamp    time.Time          `json:"timestamp"`
	Widths       []int              `json:"widths"`
	Heights      map[int]int        `json:"heights"`
	Frames       int                `json:"frames"`
	Gradient     string             `json:"gradient"`
	Adjust       adjust.Settings    `json:"adjust"`
	Flip         bool               `json:"flip"`
	SpaceDensity int                `json:"space_density"`
	Filter       string             `json:"filter"`
	Formats      []string           `json:"formats"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// NewID derives a conversion id from the source file name.
func NewID(source string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "conversion"
	}
	return fmt.Sprintf("%s_%d", base, now.Unix())
}

// Save writes res into a new library entry and returns its id.
func (s *Store) Save(meta Metadata, res *pipeline.Result, formats []string) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = NewID(meta.Source, meta.Timestamp)
	}
	if err := Write(s.Dir(meta.ID), meta, res, formats); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	runs := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := ReadMetadata(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	return ReadMetadata(s.Dir(id))
}

func (s *Store) LoadSet(id string, width int) (frame.FrameSet, error) {
	return ReadSet(s.Dir(id), width)
}

// Write stores metadata and the requested encodings of every width in dir.
func Write(dir string, meta Metadata, res *pipeline.Result, formats []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	meta.Widths = append([]int(nil), res.Widths...)
	meta.Frames = res.Frames()
	meta.Formats = append([]string(nil), formats...)
	meta.Heights = make(map[int]int, len(res.Widths))
	for _, w := range res.Widths {
		_, h := res.Set(w).Dims()
		meta.Heights[w] = h
	}

	for _, w := range res.Widths {
		if err := writeSet(dir, w, res.Set(w), formats); err != nil {
			return fmt.Errorf("width %d: %w", w, err)
		}
	}
	return writeMetadata(dir, meta)
}

func writeSet(dir string, w int, set frame.FrameSet, formats []string) error {
	for _, f := range formats {
		var err error
		switch f {
		case "json":
			err = writeFile(filepath.Join(dir, jsonName(w)), func(file *os.File) error {
				return EncodeJSON(file, set)
			})
		case "go":
			err = writeFile(filepath.Join(dir, goName(w)), func(file *os.File) error {
				return EncodeGoSource(file, w, set)
			})
		case "txt":
			err = WriteText(dir, w, set)
		default:
			err = &frame.ConfigError{Field: "format", Value: f, Reason: "expected json, go or txt"}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeMetadata(dir string, meta Metadata) error {
	return writeFile(filepath.Join(dir, metadataFile), func(file *os.File) error {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
}

func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return &meta, nil
}

// ReadSet loads width's frames from dir, preferring JSON over Go source.
func ReadSet(dir string, width int) (frame.FrameSet, error) {
	set, err := readJSON(filepath.Join(dir, jsonName(width)))
	if errors.Is(err, fs.ErrNotExist) {
		set, err = readGo(filepath.Join(dir, goName(width)), width)
	}
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("width %d in %s: %w", width, dir, err)
	}
	return set, nil
}

// ReadAll loads every width recorded in dir's metadata.
func ReadAll(dir string) (*Metadata, *pipeline.Result, error) {
	meta, err := ReadMetadata(dir)
	if err != nil {
		return nil, nil, err
	}
	res := &pipeline.Result{
		Source: meta.Source,
		Widths: append([]int(nil), meta.Widths...),
		Sets:   make(map[int]frame.FrameSet, len(meta.Widths)),
	}
	for _, w := range meta.Widths {
		set, err := ReadSet(dir, w)
		if err != nil {
			return nil, nil, err
		}
		res.Sets[w] = set
	}
	return meta, res, nil
}

// Export re-encodes the conversion in dir into the given formats.
func Export(dir string, formats []string) error {
	meta, res, err := ReadAll(dir)
	if err != nil {
		return err
	}
	merged := append([]string(nil), meta.Formats...)
	for _, f := range formats {
		if !contains(merged, f) {
			merged = append(merged, f)
		}
	}
	for _, w := range res.Widths {
		if err := writeSet(dir, w, res.Set(w), formats); err != nil {
			return fmt.Errorf("width %d: %w", w, err)
		}
	}
	meta.Formats = merged
	return writeMetadata(dir, *meta)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func readJSON(path string) (frame.FrameSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeJSON(file)
}

func readGo(path string, width int) (frame.FrameSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sets, err := DecodeGoSource(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	set, ok := sets[width]
	if !ok {
		return nil, fmt.Errorf("%s: no %s declaration", path, GoVarName(width))
	}
	return set, nil
}
