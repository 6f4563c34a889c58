package scapolite

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/yaml.v2"
)

var emptyRuleDoc = `---
id: BL942-2000
title: A rule with no automation
implementations:
  - relative_id: '01'
---
Narrative only.
`

var brokenRuleDoc = `id: [unclosed
`

func buildRuleDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "scap2ansible")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"good.yml":        ruleDoc,
		"sub/nested.yaml": ruleDoc,
		"empty.yml":       emptyRuleDoc,
		"broken.yml":      brokenRuleDoc,
		"notes.txt":       "not a rule document",
	}
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestNewDocFileList(t *testing.T) {
	dir := buildRuleDir(t)
	defer os.RemoveAll(dir)
	files, err := NewDocFileList([]string{dir}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 4 {
		t.Fatalf("got %d files, wanted 4: %+v", len(files), files)
	}
	files, err = NewDocFileList([]string{dir}, "good*")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("pattern match got %d files, wanted 1: %+v", len(files), files)
	}
}

func TestNewBatch(t *testing.T) {
	dir := buildRuleDir(t)
	defer os.RemoveAll(dir)
	logger, _ := test.NewNullLogger()
	b, err := NewBatch(Config{Directory: []string{dir}, Logger: logger})
	if err == nil {
		t.Fatal("broken document should surface as bulk error")
	}
	bulk, ok := err.(ErrBulkParse)
	if !ok {
		t.Fatalf("wanted ErrBulkParse, got %T: %s", err, err)
	}
	if len(bulk.Errs) != 1 {
		t.Fatalf("wanted 1 collected parse error, got %d", len(bulk.Errs))
	}
	if b.Total != 4 || b.Ok != 2 || b.Failed != 1 || b.Empty != 1 {
		t.Fatalf("counters off: %+v", b)
	}
	if len(b.Plays) != 2 {
		t.Fatalf("empty plays must not be collected, got %d", len(b.Plays))
	}
}

func TestNewBatchFailOnParse(t *testing.T) {
	dir := buildRuleDir(t)
	defer os.RemoveAll(dir)
	logger, _ := test.NewNullLogger()
	if _, err := NewBatch(Config{
		Directory:   []string{dir},
		FailOnParse: true,
		Logger:      logger,
	}); err == nil {
		t.Fatal("FailOnParse should return early on broken yaml")
	}
}

func TestNewBatchConfigValidate(t *testing.T) {
	if _, err := NewBatch(Config{}); err == nil {
		t.Fatal("missing directory should fail validation")
	}
	if _, err := NewBatch(Config{Directory: []string{"/no/such/dir"}}); err == nil {
		t.Fatal("nonexistent directory should fail validation")
	}
}

func TestWritePlaybookRoundTrip(t *testing.T) {
	dir := buildRuleDir(t)
	defer os.RemoveAll(dir)
	logger, _ := test.NewNullLogger()
	b, err := NewBatch(Config{
		Directory: []string{dir},
		Pattern:   "good*",
		Logger:    logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "generated", "playbook.yml")
	if err := b.WritePlaybook(out); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var plays []Play
	if err := yaml.Unmarshal(data, &plays); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(plays, b.Plays) {
		t.Fatalf("round trip mismatch\ngot %+v\nwanted %+v", plays, b.Plays)
	}
}

func TestWritePlaybookEmpty(t *testing.T) {
	var b Batch
	if err := b.WritePlaybook("anywhere.yml"); err != ErrEmptyPlaybook {
		t.Fatalf("wanted ErrEmptyPlaybook, got %v", err)
	}
}
