package report

import (
	"fmt"
	"io"
	"strconv"

	"i18n-templates/internal/parser"
	"i18n-templates/internal/textutil"
	"i18n-templates/internal/translator"

	"github.com/olekukonko/tablewriter"
)

const baselineLabel = "(baseline)"

// Summary prints one row per written catalog.
func Summary(w io.Writer, result *translator.Result) error {
	rows := make([][]string, 0, len(result.Outputs))
	for _, out := range result.Outputs {
		lang := out.Lang
		localePath := out.LocalePath
		if lang == "" {
			lang = baselineLabel
			localePath = "-"
		}
		rows = append(rows, []string{
			lang,
			strconv.Itoa(out.Keys),
			strconv.Itoa(out.Fallbacks),
			out.TemplatePath,
			localePath,
		})
	}

	if err := render(w, []string{"Language", "Keys", "Fallbacks", "Templates", "Locale"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d files, %d definitions, %d fallbacks\n",
		result.Files, result.Definitions, len(result.Missing))
	return err
}

// Definitions prints the markers found by a scan.
func Definitions(w io.Writer, results []*parser.ParseResult) error {
	var rows [][]string
	for _, r := range results {
		for _, def := range r.Definitions {
			rows = append(rows, []string{
				def.CompositeKey(),
				textutil.Truncate(def.Text, 40),
				r.FilePath + ":" + strconv.Itoa(def.Line),
			})
		}
	}
	return render(w, []string{"Key", "Text", "Source"}, rows)
}

func render(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("add rows to table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
