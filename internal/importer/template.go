package importer

import (
	"bytes"
	"encoding/csv"
)

// TemplateFilename is the suggested download name for the template file.
const TemplateFilename = "llmcostguide-template.csv"

var templateRows = [][]string{
	{"GPT-4 Turbo", "OpenRouter", "128000", "0.01", "0.03", "0.005", "Text", "128K", "Latest GPT-4 Turbo model", ""},
	{"Claude 3 Opus", "OpenRouter", "200000", "0.015", "0.075", "0.003", "Text", "200K", "Anthropic's most capable model", ""},
}

// Template produces the two-row example CSV covering the full canonical
// column set. Pure; no I/O beyond the returned buffer.
func Template() []byte {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	w.Write(CanonicalColumns)
	for _, row := range templateRows {
		w.Write(row)
	}
	w.Flush()

	return b.Bytes()
}
