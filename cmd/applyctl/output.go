package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/caseconsulting/job-apply/internal/domain"
)

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	failText = color.New(color.FgRed).SprintFunc()
	headText = color.New(color.FgYellow).SprintFunc()
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRecord renders rec as a two column table in stored field order
func printRecord(w io.Writer, title string, rec domain.Record) {
	if title != "" {
		fmt.Fprintln(w, headText(title))
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	for _, k := range rec.Keys() {
		table.Append([]string{k, rec[k]})
	}
	table.Render()
}

func printPairs(w io.Writer, pairs [][2]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		table.Append([]string{p[0], p[1]})
	}
	table.Render()
}

func status(ok bool, text string) string {
	if ok {
		return okText(text)
	}
	return failText(text)
}
