// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pricelist-engine/internal/vocab"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <label>...",
	Short: "Show the column roles assigned to header labels",
	Long: `Classify reports, for each header label, the roles it would be given
by the active column vocabulary. Labels matching no role become record
attributes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the active column vocabulary as YAML",
	Long: `Vocab prints the keyword list of every column role. The output is a
valid vocabulary file and can be edited and passed back with
--vocabulary or vocabulary_file.`,
	Args: cobra.NoArgs,
	RunE: runVocab,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(vocabCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	v, err := vocab.Load(cfg.VocabularyFile)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, label := range args {
		roles := v.Assign(label)
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		if len(names) == 0 {
			names = []string{"(attribute)"}
		}
		fmt.Fprintf(w, "%-30q  %s\n", label, strings.Join(names, ", "))
	}
	return nil
}

func runVocab(cmd *cobra.Command, args []string) error {
	v, err := vocab.Load(cfg.VocabularyFile)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}
