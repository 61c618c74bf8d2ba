package main

import (
	"fmt"
	"io"

	"flowstore/internal/journal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func newJournalCmd() *cobra.Command {
	var dir, actionType, format string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print the actions recorded in a journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatYAML {
				return fmt.Errorf("unknown format %q", format)
			}

			j, err := journal.OpenExisting(dir, true)
			if err != nil {
				return err
			}
			defer j.Close()

			var records []journal.Record
			if actionType != "" {
				records, err = j.ByType(actionType)
			} else {
				records, err = j.Entries()
			}
			if err != nil {
				return err
			}

			return printRecords(cmd.OutOrStdout(), records, format)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data/journal", "journal directory")
	cmd.Flags().StringVar(&actionType, "type", "", "only print actions of this type")
	cmd.Flags().StringVar(&format, "format", formatText, "output format (text, yaml)")
	return cmd
}

type yamlRecord struct {
	Seq     uint64 `yaml:"seq"`
	Type    string `yaml:"type"`
	Time    string `yaml:"time"`
	Payload string `yaml:"payload,omitempty"`
}

func printRecords(w io.Writer, records []journal.Record, format string) error {
	if format == formatYAML {
		out := make([]yamlRecord, len(records))
		for i, r := range records {
			out[i] = yamlRecord{
				Seq:     r.Seq,
				Type:    r.Type,
				Time:    r.Time.Format("2006-01-02T15:04:05.000Z07:00"),
				Payload: string(r.Payload),
			}
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%6d  %s  %-20s %s\n",
			r.Seq, r.Time.Format("15:04:05.000"), r.Type, string(r.Payload)); err != nil {
			return err
		}
	}
	return nil
}
