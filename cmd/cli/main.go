package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golime/adapters/excel"
	"golime/adapters/filestore"
	"golime/adapters/report"
	"golime/adapters/scaling"
	"golime/app"
	"golime/domain/discretization"
	"golime/domain/explanation"
	"golime/internal"
	"golime/internal/config"
	"golime/internal/testkit"
	"golime/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "golime-cli",
		Short: "Reverse normalization tools for LIME sequence explanations",
	}

	rootCmd.AddCommand(
		newDenormalizeCmd(),
		newFitScalerCmd(),
		newInspectCmd(),
		newReportCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// layoutFlags are shared by every command that reads an explanation
type layoutFlags struct {
	columns string
	steps   int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.columns, "columns", os.Getenv("DATA_COLUMNS"), "Comma separated columns in scaler order (default: DATA_COLUMNS or the scaler's feature names)")
	cmd.Flags().IntVar(&f.steps, "steps", envSteps(), "Sequence steps the explainer ran with (default: SEQUENCE_STEPS or 2)")
}

// resolve picks the column order from the flag, falling back to the scaler's feature names
func (f *layoutFlags) resolve(scaler ports.Scaler) ([]string, error) {
	columns := config.ParseColumns(f.columns)
	if len(columns) == 0 && scaler != nil {
		columns = scaler.FeatureNames()
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns given: use --columns or DATA_COLUMNS")
	}
	return columns, nil
}

func envSteps() int {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultSequenceSteps
	}
	return cfg.Scaling.SequenceSteps
}

func newDenormalizeCmd() *cobra.Command {
	var layout layoutFlags
	var scalerPath string
	var outPath string
	var only string

	cmd := &cobra.Command{
		Use:   "denormalize [explanation.json]",
		Short: "Map an explanation's values and discretized names back to original units",
		Long: `De-normalize a LIME recurrent tabular explanation.

The output format follows the --out extension: .json writes the explanation,
.xlsx writes a workbook with Features, Grid and Weights sheets. Without --out
the JSON goes to stdout.

Example: golime-cli denormalize exp.json --scaler scaler.json --columns HR,SPO2 --steps 6 --out exp.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDenormalize(cmd.OutOrStdout(), args[0], scalerPath, &layout, only, outPath)
		},
	}

	layout.register(cmd)
	cmd.Flags().StringVar(&scalerPath, "scaler", os.Getenv("SCALER_FILE"), "Scaler JSON file (default: SCALER_FILE)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (.json or .xlsx)")
	cmd.Flags().StringVar(&only, "only", "", "Restrict to one part: values|names")

	return cmd
}

func runDenormalize(stdout io.Writer, expPath, scalerPath string, layout *layoutFlags, only, outPath string) error {
	exp, scaler, columns, err := loadInputs(expPath, scalerPath, layout)
	if err != nil {
		return err
	}

	normalizer := app.NewReverseNormalizer(internal.DefaultLogger)
	var out *explanation.Explanation
	switch only {
	case "":
		out, err = normalizer.ReverseNormalize(exp, columns, layout.steps, scaler)
	case "values":
		out, err = normalizer.DenormalizeValues(exp, columns, layout.steps, scaler)
	case "names":
		out, err = normalizer.DenormalizeDiscretization(exp, columns, layout.steps, scaler)
	default:
		return fmt.Errorf("invalid --only %q (use values or names)", only)
	}
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case "":
		return filestore.WriteExplanation(stdout, out)
	case ".json":
		return filestore.SaveExplanation(outPath, out)
	case ".xlsx":
		return excel.NewExplanationWriter(explanation.NewLayout(columns, layout.steps)).Save(outPath, out)
	default:
		return fmt.Errorf("unsupported output format %q", outPath)
	}
}

func loadInputs(expPath, scalerPath string, layout *layoutFlags) (*explanation.Explanation, ports.Scaler, []string, error) {
	if scalerPath == "" {
		return nil, nil, nil, fmt.Errorf("no scaler given: use --scaler or SCALER_FILE")
	}
	scaler, err := scaling.LoadFile(scalerPath)
	if err != nil {
		return nil, nil, nil, err
	}
	exp, err := filestore.LoadExplanation(expPath)
	if err != nil {
		return nil, nil, nil, err
	}
	columns, err := layout.resolve(scaler)
	if err != nil {
		return nil, nil, nil, err
	}
	return exp, scaler, columns, nil
}

func newFitScalerCmd() *cobra.Command {
	var kind string
	var columns string
	var outPath string
	var rangeMin, rangeMax float64

	cmd := &cobra.Command{
		Use:   "fit-scaler [training.csv|training.xlsx]",
		Short: "Fit a scaler on training data and save it as JSON",
		Long: `Fit a standard or min-max scaler on the numeric columns of a CSV file or
the first sheet of an xlsx workbook. Rows with an empty or non-numeric cell in
a selected column are skipped.

Example: golime-cli fit-scaler vitals.csv --kind standard --columns HR,SPO2,TEMP --out scaler.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFitScaler(cmd.OutOrStdout(), args[0], kind, config.ParseColumns(columns), [2]float64{rangeMin, rangeMax}, outPath)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", scaling.KindStandard, "Scaler kind: standard|minmax")
	cmd.Flags().StringVar(&columns, "columns", os.Getenv("DATA_COLUMNS"), "Comma separated columns to fit, in order (default: all)")
	cmd.Flags().StringVar(&outPath, "out", "scaler.json", "Output scaler JSON file")
	cmd.Flags().Float64Var(&rangeMin, "range-min", scaling.DefaultFeatureRange[0], "Min-max target range lower end")
	cmd.Flags().Float64Var(&rangeMax, "range-max", scaling.DefaultFeatureRange[1], "Min-max target range upper end")

	return cmd
}

func runFitScaler(stdout io.Writer, dataPath, kind string, columns []string, featureRange [2]float64, outPath string) error {
	data, err := excel.NewDataReader(dataPath).ReadTraining(columns)
	if err != nil {
		return err
	}

	var scaler ports.Scaler
	if kind == scaling.KindMinMax {
		scaler, err = scaling.FitMinMaxScaler(data.X, featureRange, data.Columns)
	} else {
		scaler, err = scaling.Fit(kind, data.X, data.Columns)
	}
	if err != nil {
		return err
	}

	if err := scaling.SaveFile(outPath, scaler); err != nil {
		return err
	}
	rows, _ := data.X.Dims()
	fmt.Fprintf(stdout, "Fitted %s scaler on %d rows (%d skipped) for %s -> %s\n",
		scaler.Kind(), rows, data.Skipped, strings.Join(data.Columns, ","), outPath)
	return nil
}

func newInspectCmd() *cobra.Command {
	var layout layoutFlags
	var scalerPath string

	cmd := &cobra.Command{
		Use:   "inspect [explanation.json]",
		Short: "Print every value and parsed rule per column and timepoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], scalerPath, &layout)
		},
	}

	layout.register(cmd)
	cmd.Flags().StringVar(&scalerPath, "scaler", "", "Optional scaler JSON, only used for its feature names")

	return cmd
}

func runInspect(stdout io.Writer, expPath, scalerPath string, layout *layoutFlags) error {
	var scaler ports.Scaler
	if scalerPath != "" {
		var err error
		if scaler, err = scaling.LoadFile(scalerPath); err != nil {
			return err
		}
	}
	exp, err := filestore.LoadExplanation(expPath)
	if err != nil {
		return err
	}
	columns, err := layout.resolve(scaler)
	if err != nil {
		return err
	}

	l := explanation.NewLayout(columns, layout.steps)
	dm := exp.DomainMapper
	if err := l.CheckLen(len(dm.FeatureValues), "feature_values"); err != nil {
		return err
	}
	if err := l.CheckLen(len(dm.DiscretizedFeatureNames), "discretized_feature_names"); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d columns x %d timepoints\n", l.Features(), l.Timepoints())
	for c, col := range l.Columns {
		fmt.Fprintf(stdout, "\n%s\n", col)
		for t := 0; t < l.Timepoints(); t++ {
			i := l.Index(c, t)
			line := fmt.Sprintf("  [%d] %-12s value=%-10s", i, l.FeatureName(c, t), dm.FeatureValues[i])
			rule, err := discretization.Parse(dm.DiscretizedFeatureNames[i])
			if err != nil {
				fmt.Fprintf(stdout, "%s rule=INVALID (%v)\n", line, err)
				continue
			}
			lower, upper := rule.Bounds()
			fmt.Fprintf(stdout, "%s %-10s feature=%-12s ops=%-6s lower=%-10s upper=%-10s %q\n", line, rule.Form(),
				rule.Feature(), strings.Join(rule.Operators(), ","),
				explanation.FormatValue(lower), explanation.FormatValue(upper), rule.String())
		}
	}
	return nil
}

func newReportCmd() *cobra.Command {
	var layout layoutFlags
	var scalerPath string
	var dir string
	var title string

	cmd := &cobra.Command{
		Use:   "report [explanation.json]",
		Short: "Render a markdown and HTML report of an explanation",
		Long: `Render a report of an explanation. With --scaler the explanation is
de-normalized first; without it the explanation is rendered as given.

Example: golime-cli report exp.json --scaler scaler.json --dir ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), args[0], scalerPath, &layout, dir, title)
		},
	}

	layout.register(cmd)
	cmd.Flags().StringVar(&scalerPath, "scaler", "", "Scaler JSON used to de-normalize before rendering")
	cmd.Flags().StringVar(&dir, "dir", envOrDefault("REPORT_DIR", "./reports"), "Report output directory (default: REPORT_DIR)")
	cmd.Flags().StringVar(&title, "title", "", "Report title")

	return cmd
}

func runReport(stdout io.Writer, expPath, scalerPath string, layout *layoutFlags, dir, title string) error {
	var (
		exp     *explanation.Explanation
		columns []string
		err     error
	)
	if scalerPath != "" {
		var scaler ports.Scaler
		exp, scaler, columns, err = loadInputs(expPath, scalerPath, layout)
		if err != nil {
			return err
		}
		exp, err = app.NewReverseNormalizer(internal.DefaultLogger).ReverseNormalize(exp, columns, layout.steps, scaler)
	} else {
		exp, err = filestore.LoadExplanation(expPath)
		if err == nil {
			columns, err = layout.resolve(nil)
		}
	}
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(expPath), filepath.Ext(expPath))
	renderer := report.NewRenderer(explanation.NewLayout(columns, layout.steps), title)
	mdPath, htmlPath, err := renderer.Save(dir, name, exp)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report written to %s and %s\n", mdPath, htmlPath)
	return nil
}

func newSampleCmd() *cobra.Command {
	var dir string
	var kind string
	var steps int
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic normalized explanation and its scaler",
		Long: `Generate a vital-signs-like normalized explanation with LIME quartile names,
the scaler it was normalized with, and the expected de-normalized values.

Example: golime-cli sample --dir ./sample --steps 6 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd.OutOrStdout(), dir, kind, steps, seed)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./sample", "Output directory")
	cmd.Flags().StringVar(&kind, "kind", scaling.KindStandard, "Scaler kind: standard|minmax")
	cmd.Flags().IntVar(&steps, "steps", 6, "Sequence steps")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")

	return cmd
}

func runSample(stdout io.Writer, dir, kind string, steps int, seed int64) error {
	cfg := testkit.DefaultSequenceConfig()
	cfg.ScalerKind = kind
	cfg.SequenceSteps = steps
	cfg.Seed = seed

	fixture, err := testkit.NewSequenceGenerator(cfg).Generate()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	expPath := filepath.Join(dir, "explanation.json")
	scalerPath := filepath.Join(dir, "scaler.json")
	if err := filestore.SaveExplanation(expPath, fixture.Explanation); err != nil {
		return err
	}
	if err := scaling.SaveFile(scalerPath, fixture.Scaler); err != nil {
		return err
	}

	expected := fixture.Explanation.Clone()
	expected.DomainMapper.FeatureValues = fixture.ExpectedValues()
	if err := filestore.SaveExplanation(filepath.Join(dir, "expected_values.json"), expected); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %s and %s (columns %s, steps %d)\n",
		expPath, scalerPath, strings.Join(fixture.Columns, ","), steps)
	return nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
