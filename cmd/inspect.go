package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/dataset"
	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

var (
	insOutputPath string
	insFormat     string
	insSampleRows int
	insGroupBy    []string
	insCorr       bool
	insOutliers   bool
	insOutlierThr float64
	insDecimal    string
	insSheetName  string
	insSheetIndex int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a CSV/TSV/XLSX file without prompting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := effectiveConfig()
		load, err := loadOptions(c, insDecimal)
		if err != nil {
			return err
		}
		load.Sheet = insSheetName
		if insSheetIndex > 0 {
			load.SheetIndex = insSheetIndex
		}
		ds, err := dataset.Load(path, load)
		if err != nil {
			return err
		}

		opt := analysis.DefaultOptions()
		opt.SampleRows = c.SampleRows
		if insSampleRows > 0 {
			opt.SampleRows = insSampleRows
		}
		opt.GroupBy = insGroupBy
		opt.Correlations = insCorr
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = insOutliers
		}
		opt.OutlierThreshold = c.OutlierThreshold
		if insOutlierThr > 0 {
			opt.OutlierThreshold = insOutlierThr
		}
		rep := analysis.Analyze(ds, opt)

		var body []byte
		switch strings.ToLower(insFormat) {
		case "md", "markdown", "":
			body = []byte(rep.Markdown())
		case "json":
			body, err = utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			body = append(body, '\n')
		case "table":
			if insOutputPath != "" {
				return fmt.Errorf("--format table prints to the terminal only")
			}
			rep.Render(cmd.OutOrStdout())
			return nil
		default:
			return fmt.Errorf("unsupported --format: %s (use md|json|table)", insFormat)
		}

		if insOutputPath != "" {
			if err := utils.SafeWriteFile(insOutputPath, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote inspection report to %s\n", insOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the report")
	inspectCmd.Flags().StringVar(&insFormat, "format", "md", "report format: md | json | table")
	inspectCmd.Flags().StringVar(&insDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 0, "number of sample rows to include (default from config)")
	inspectCmd.Flags().StringSliceVar(&insGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	inspectCmd.Flags().BoolVar(&insCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	inspectCmd.Flags().BoolVar(&insOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	inspectCmd.Flags().Float64Var(&insOutlierThr, "outlier-threshold", 0, "robust |z| threshold for outliers (default from config)")
	inspectCmd.Flags().StringVar(&insSheetName, "sheet-name", "", "XLSX: sheet name to inspect")
	inspectCmd.Flags().IntVar(&insSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
