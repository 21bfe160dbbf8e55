package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/paveg/tabula"
	"github.com/paveg/tabula/internal/compute"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	defaultDemoRows  = 1_000
	defaultBenchRows = 100_000
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE:  printVersion}
	cmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "head file",
		Short: "Print the first rows of a data file",
		Args:  cobra.ExactArgs(1),
		RunE:  head}
	cmd.Flags().IntP("rows", "n", 10, "number of rows to print")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "describe file",
		Short: "Summarize the numeric columns of a data file",
		Args:  cobra.ExactArgs(1),
		RunE:  describe}
	cmd.Flags().StringSlice("columns", nil, "columns to summarize (default: all)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "cast file",
		Short: "Convert one column of a data file to another type",
		Args:  cobra.ExactArgs(1),
		RunE:  castColumn}
	cmd.Flags().StringP("column", "c", "", "column to convert")
	cmd.Flags().StringP("to", "t", "", "target type, e.g. int64, float64, string")
	cmd.Flags().StringP("output", "o", "", "output file (default: print the result)")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("to")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "convert input output",
		Short: "Convert between CSV, TSV, JSON and JSON lines, optionally compressed",
		Args:  cobra.ExactArgs(2),
		RunE:  convert}
	cmd.Flags().Bool("dedupe", false, "drop duplicate rows")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "demo",
		Short: "Build a sample frame and run a few operations on it",
		Args:  cobra.NoArgs,
		RunE:  demo}
	cmd.Flags().Int("rows", defaultDemoRows, "number of rows")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "bench",
		Short: "Time the bulk operations over a generated frame",
		Args:  cobra.NoArgs,
		RunE:  bench}
	cmd.Flags().Int("rows", defaultBenchRows, "number of rows")
	root.AddCommand(cmd)
}

func getBool(cmd *cobra.Command, name string) bool {
	result, _ := cmd.Flags().GetBool(name)
	return result
}

func getInt(cmd *cobra.Command, name string) int {
	result, _ := cmd.Flags().GetInt(name)
	return result
}

func getString(cmd *cobra.Command, name string) string {
	result, _ := cmd.Flags().GetString(name)
	return result
}

func getStringSlice(cmd *cobra.Command, name string) []string {
	result, _ := cmd.Flags().GetStringSlice(name)
	return result
}

func readFile(path string) (*tabula.DataFrame, error) {
	df, err := tabula.ReadFile(path)
	return df, errors.Wrapf(err, "reading %s", path)
}

func printVersion(cmd *cobra.Command, _ []string) error {
	info := version.Info()
	out := cmd.OutOrStdout()
	switch format := getString(cmd, "format"); format {
	case "text":
		_, err := io.WriteString(out, info.String())
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(info), "encoding build info")
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return errors.Wrap(err, "encoding build info")
		}
		return enc.Close()
	default:
		return errors.Errorf("unknown format %q", format)
	}
}

func head(cmd *cobra.Command, args []string) error {
	df, err := readFile(args[0])
	if err != nil {
		return err
	}
	opts := tabula.DefaultRenderOptions()
	opts.MaxRows = getInt(cmd, "rows")
	return df.Render(cmd.OutOrStdout(), opts)
}

func describe(cmd *cobra.Command, args []string) error {
	df, err := readFile(args[0])
	if err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty(df, "describe"); err != nil {
		return err
	}
	if cols := getStringSlice(cmd, "columns"); len(cols) > 0 {
		if df, err = df.Select(cols...); err != nil {
			return err
		}
	}
	summary, err := tabula.DescribeFrame(df)
	if err != nil {
		return err
	}
	return summary.Render(cmd.OutOrStdout(), tabula.RenderOptions{})
}

func castColumn(cmd *cobra.Command, args []string) error {
	column, to := getString(cmd, "column"), getString(cmd, "to")
	tag, ok := tabula.ParseTag(strings.ToLower(to))
	if !ok || tag == tabula.None || tag == tabula.Custom {
		return errors.Errorf("unknown type %q", to)
	}

	df, err := readFile(args[0])
	if err != nil {
		return err
	}
	check := validation.NewCompoundValidator(
		validation.NewEmptyValidator(df, "cast"),
		validation.NewColumnValidator(df, "cast", column),
	)
	if err := check.Validate(); err != nil {
		return err
	}
	err = compute.CastColumns(df, func(name string) (tabula.Tag, bool) {
		return tag, name == column
	})
	if err != nil {
		return err
	}

	if output := getString(cmd, "output"); output != "" {
		return errors.Wrapf(tabula.WriteFile(output, df), "writing %s", output)
	}
	return df.Render(cmd.OutOrStdout(), tabula.DefaultRenderOptions())
}

func convert(cmd *cobra.Command, args []string) error {
	df, err := readFile(args[0])
	if err != nil {
		return err
	}
	if getBool(cmd, "dedupe") {
		if df, err = tabula.DropDuplicates(df); err != nil {
			return err
		}
	}
	if err := tabula.WriteFile(args[1], df); err != nil {
		return errors.Wrapf(err, "writing %s", args[1])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", df.Len(), args[1])
	return nil
}

// sample builds an employee frame with a deterministic layout.
func sample(rows int) (*tabula.DataFrame, error) {
	const (
		baseAge         = 25
		ageRange        = 40
		baseSalary      = 40000
		salaryIncrement = 1000
		salaryRange     = 60
	)
	depts := []string{"Engineering", "Sales", "Marketing", "HR", "Finance"}

	names := make([]string, rows)
	ages := make([]int64, rows)
	salaries := make([]float64, rows)
	departments := make([]string, rows)
	for i := range rows {
		names[i] = fmt.Sprintf("Employee_%d", i+1)
		ages[i] = int64(baseAge + (i % ageRange))
		salaries[i] = float64(baseSalary + (i%salaryRange)*salaryIncrement)
		departments[i] = depts[i%len(depts)]
	}
	return tabula.NewDataFrame(
		tabula.SeriesOf("name", names),
		tabula.SeriesOf("age", ages),
		tabula.SeriesOf("salary", salaries),
		tabula.SeriesOf("department", departments),
	)
}

func demo(cmd *cobra.Command, _ []string) error {
	const (
		ageThreshold = 35
		bonusRate    = 0.1
	)
	out := cmd.OutOrStdout()

	df, err := sample(getInt(cmd, "rows"))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created frame with %d rows and %d columns\n", df.Len(), df.Width())

	salary, err := df.Column("salary")
	if err != nil {
		return err
	}
	bonus, err := tabula.ApplyScalar(tabula.OpMul, salary, tabula.CellOf(bonusRate))
	if err != nil {
		return err
	}
	bonus.SetName("bonus")
	if err := df.AppendColumn(bonus); err != nil {
		return err
	}

	senior, err := tabula.FilterRows(df, func(row []tabula.Cell) bool {
		age, err := tabula.As[int64](row[1])
		return err == nil && age > ageThreshold
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nEmployees older than %d: %d\n", ageThreshold, senior.Len())
	opts := tabula.DefaultRenderOptions()
	opts.MaxRows = 5
	if err := senior.Render(out, opts); err != nil {
		return err
	}

	dept, err := senior.Column("department")
	if err != nil {
		return err
	}
	unique, err := tabula.Unique(dept)
	if err != nil {
		return err
	}
	names := make([]string, 0, unique.Len())
	for _, c := range unique.Values() {
		names = append(names, c.String())
	}
	fmt.Fprintf(out, "\nDepartments: %s\n", strings.Join(names, ", "))

	summary, err := tabula.DescribeFrame(senior)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	return summary.Render(out, tabula.RenderOptions{})
}

func bench(cmd *cobra.Command, _ []string) error {
	rows := getInt(cmd, "rows")
	df, err := sample(rows)
	if err != nil {
		return err
	}
	age, _ := df.Column("age")
	salary, _ := df.Column("salary")

	suite := monitoring.NewBenchmarkSuite()
	suite.Add("transform", rows, func() error {
		_, err := tabula.Transform(age, func(c tabula.Cell) (tabula.Cell, error) {
			return tabula.Binary(tabula.OpAdd, c, tabula.CellOf(int64(1)))
		})
		return err
	})
	suite.Add("filter", rows, func() error {
		_, err := tabula.Filter(age, func(c tabula.Cell) bool {
			v, err := tabula.As[int64](c)
			return err == nil && v > 40
		})
		return err
	})
	suite.Add("add", rows, func() error {
		_, err := tabula.Add(salary, salary)
		return err
	})
	suite.Add("cast", rows, func() error {
		_, err := tabula.Cast(age, tabula.Float64)
		return err
	})
	suite.Add("unique", rows, func() error {
		_, err := tabula.Unique(age)
		return err
	})
	suite.Add("drop_duplicates", rows*df.Width(), func() error {
		_, err := tabula.DropDuplicates(df, "age", "department")
		return err
	})
	suite.Add("describe", rows, func() error {
		_, err := tabula.DescribeFrame(df)
		return err
	})
	suite.Add("write_csv", rows*df.Width(), func() error {
		return tabula.WriteCSV(io.Discard, df, tabula.DefaultCSVOptions())
	})

	var failed int
	for _, r := range suite.Run() {
		if !r.Success() {
			failed++
		}
	}
	if err := suite.WriteReport(cmd.OutOrStdout()); err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d benchmark scenarios failed", failed)
	}
	return nil
}
