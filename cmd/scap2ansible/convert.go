package main

import (
	scapolite "github.com/scapolite/go-scapolite-ansible"
	"github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a directory of Scapolite rules into one Ansible playbook",
	Long: `Convert recursively collects yml and yaml documents from the input directory,
extracts rule metadata and combines every windows registry automation into a
single playbook. Broken documents and automations are skipped with a
diagnostic, partial output beats no output.`,
	Run: convert,
}

func convert(cmd *cobra.Command, args []string) {
	batch, err := scapolite.NewBatch(scapolite.Config{
		Directory: []string{viper.GetString("convert.input")},
		Pattern:   viper.GetString("rules.pattern"),
	})
	if err != nil {
		switch err.(type) {
		case scapolite.ErrBulkParse:
			logrus.Error(err)
		default:
			logrus.Error(err)
			return
		}
	}
	logrus.Infof("OK: %d; FAIL: %d; EMPTY: %d; TOTAL: %d",
		batch.Ok, batch.Failed, batch.Empty, batch.Total)
	if len(batch.Plays) == 0 {
		logrus.Warn("no valid plays generated")
		return
	}
	out := viper.GetString("convert.output")
	if err := batch.WritePlaybook(out); err != nil {
		logrus.Error(err)
		return
	}
	logrus.Infof("playbook saved successfully: %s", out)
	logrus.Infof("converted documents: %d", len(batch.Plays))
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("input", "i", "",
		"Directory containing Scapolite rule documents (e.g. 'rules/').")
	convertCmd.Flags().StringP("output", "o", "",
		"Output file for the Ansible playbook (e.g. 'generated/automated_hardening.yml').")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	viper.BindPFlag("convert.input", convertCmd.Flags().Lookup("input"))
	viper.BindPFlag("convert.output", convertCmd.Flags().Lookup("output"))
}
