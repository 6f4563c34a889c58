package scapolite

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/ryanuber/go-glob"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config is used as argument to creating a new batch
type Config struct {
	// root directories for recursive document search
	// documents must be readable files with yml or yaml suffix
	Directory []string
	// optional glob pattern matched against document base names
	// empty pattern matches everything
	Pattern string
	// by default, a document parse fail will simply increment Batch.Failed
	// this parameter will cause an early error return instead
	FailOnParse bool
	// diagnostics sink passed down to per-document conversion
	// nil defaults to the logrus standard logger
	Logger logrus.FieldLogger
}

func (c Config) validate() error {
	if len(c.Directory) == 0 {
		return fmt.Errorf("missing root directory for scapolite documents")
	}
	for _, dir := range c.Directory {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist", dir)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
	}
	return nil
}

// NewDocFileList finds all yml and yaml files from defined root directories
// Subtree is scanned recursively
// No file validation, other than suffix and optional base name pattern matching
func NewDocFileList(dirs []string, pattern string) ([]string, error) {
	out := make([]string, 0)
	for _, dir := range dirs {
		if err := filepath.Walk(dir, func(
			path string,
			info os.FileInfo,
			err error,
		) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if !strings.HasSuffix(path, ".yml") && !strings.HasSuffix(path, ".yaml") {
				return nil
			}
			if pattern != "" && !glob.Glob(pattern, filepath.Base(path)) {
				return nil
			}
			out = append(out, path)
			return nil
		}); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Batch is the result of converting one directory tree of rule documents
type Batch struct {
	Plays []Play
	root  []string

	Total, Ok, Failed, Empty int
}

// NewBatch converts every document under the configured directories into
// plays. Documents that fail to parse or produce no tasks are counted and
// skipped, never fatal; collected parse failures come back as ErrBulkParse
// alongside a usable batch.
func NewBatch(c Config) (*Batch, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	files, err := NewDocFileList(c.Directory, c.Pattern)
	if err != nil {
		return nil, err
	}
	b := &Batch{
		Plays: make([]Play, 0, len(files)),
		root:  c.Directory,
		Total: len(files),
	}
	errs := make([]ErrParseMetadata, 0)
loop:
	for i, path := range files {
		contextLogger := logger.WithField("file", path)
		contextLogger.Debug("processing")
		data, err := ioutil.ReadFile(path)
		if err != nil {
			if c.FailOnParse {
				return nil, err
			}
			contextLogger.Error(err)
			b.Failed++
			continue loop
		}
		m, err := ExtractMetadata(data)
		if err != nil {
			parseErr := ErrParseMetadata{Path: path, Count: i, Err: err}
			if c.FailOnParse {
				return nil, &parseErr
			}
			contextLogger.Errorf("skipping document due to yaml parse error: %s", err)
			errs = append(errs, parseErr)
			b.Failed++
			continue loop
		}
		play := MapToPlay(m, contextLogger)
		if len(play.Tasks) == 0 {
			contextLogger.Warn("no tasks generated")
			b.Empty++
			continue loop
		}
		b.Plays = append(b.Plays, play)
		b.Ok++
	}
	return b, func() error {
		if len(errs) > 0 {
			return ErrBulkParse{Errs: errs}
		}
		return nil
	}()
}

// WritePlaybook serializes generated plays to path, creating the parent
// directory when missing. Struct field order carries through yaml.v2, so the
// written playbook preserves task and key order exactly.
func (b Batch) WritePlaybook(path string) error {
	if len(b.Plays) == 0 {
		return ErrEmptyPlaybook
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(b.Plays)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}
