package main

import (
	"fmt"
	"io"

	"github.com/jmccarv/subsolve/internal/ngram"
	"github.com/spf13/cobra"
)

var freqsCorpus string

var freqsCmd = &cobra.Command{
	Use:   "freqs",
	Short: "Show how often each letter starts a word in the corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("corpus") {
			cfg.Corpus = freqsCorpus
		}

		model, err := ngram.TrainFile(cfg.Corpus)
		if err != nil {
			return err
		}

		dispFreqs(cmd.OutOrStdout(), model)
		return nil
	},
}

func init() {
	freqsCmd.Flags().StringVarP(&freqsCorpus, "corpus", "f", "", "Training corpus")
}

func dispFreqs(w io.Writer, m *ngram.Model) {
	fmt.Fprintf(w, "%d words\n", m.Words())
	for _, f := range m.LetterFreqs() {
		fmt.Fprintf(w, "%c %4.2f  ", f.Letter, f.Pct*100)
	}
	fmt.Fprintln(w)
}
