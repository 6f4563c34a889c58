package main

import (
	"fmt"
	"io/ioutil"

	jsoniter "github.com/json-iterator/go"
	scapolite "github.com/scapolite/go-scapolite-ansible"
	"github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type counts struct {
	Total  int `json:"total"`
	Ok     int `json:"ok"`
	Failed int `json:"failed"`
	Empty  int `json:"empty"`
}

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Parse a rule directory for testing",
	Long: `Recursively parses scapolite documents from the filesystem without writing any
output and provides detailed per-document feedback about automation support.`,
	Run: lint,
}

func lint(cmd *cobra.Command, args []string) {
	files, err := scapolite.NewDocFileList(
		[]string{viper.GetString("lint.input")},
		viper.GetString("rules.pattern"),
	)
	if err != nil {
		logrus.Error(err)
		return
	}
	logrus.Infof("got %d rule documents", len(files))
	c := &counts{Total: len(files)}
loop:
	for _, path := range files {
		contextLogger := logrus.WithField("file", path)
		data, err := ioutil.ReadFile(path)
		if err != nil {
			c.Failed++
			contextLogger.Error(err)
			continue loop
		}
		m, err := scapolite.ExtractMetadata(data)
		if err != nil {
			c.Failed++
			contextLogger.Error(err)
			continue loop
		}
		play := scapolite.MapToPlay(m, contextLogger)
		if len(play.Tasks) == 0 {
			c.Empty++
			contextLogger.Warn("no tasks would be generated")
			continue loop
		}
		c.Ok++
		contextLogger.Infof("ok, %d tasks", len(play.Tasks))
	}
	if viper.GetBool("lint.json") {
		b, err := json.Marshal(c)
		if err != nil {
			logrus.Error(err)
			return
		}
		fmt.Println(string(b))
		return
	}
	logrus.Infof("OK: %d; FAIL: %d; EMPTY: %d", c.Ok, c.Failed, c.Empty)
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringP("input", "i", ".",
		"Directory containing Scapolite rule documents.")
	lintCmd.Flags().Bool("json", false,
		"Emit summary counters as a json object on stdout.")
	viper.BindPFlag("lint.input", lintCmd.Flags().Lookup("input"))
	viper.BindPFlag("lint.json", lintCmd.Flags().Lookup("json"))
}
