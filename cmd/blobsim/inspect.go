package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/blobsim/internal/analysis"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/export"
	"github.com/san-kum/blobsim/internal/palette"
	"github.com/san-kum/blobsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	jsonOut string
	csvOut  string
	svgOut  string
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tNODES\tTICKS\tDT\tBOX\tHITS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%.0fx%.0f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NodeCount,
			run.Ticks,
			run.Dt,
			run.Width, run.Height,
			len(run.Collisions),
		)
	}
	return w.Flush()
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot centroid and volume over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, samples, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))

	xs := make([]float64, len(samples))
	vols := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Centroid.X
		vols[i] = s.Volume
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{"centroid y (down is larger)", analysis.CentroidHeights(samples)},
		{"centroid x", xs},
		{"volume", vols},
	}
	for _, s := range series {
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func loadRun(st *storage.Store, runID string) (*storage.RunMetadata, []dynamo.Sample, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "wobble frequency and phase portrait of the centroid",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, samples, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("run %s is too short to analyze", meta.ID)
	}

	heights := analysis.CentroidHeights(samples)
	sampleDt := (samples[len(samples)-1].Time - samples[0].Time) / float64(len(samples)-1)

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	ps := analysis.PowerSpectrum(heights)
	if len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[1:len(ps)/4+1],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (centroid y)"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(heights, sampleDt)
	fmt.Printf("dominant frequency: %.4f per time unit\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f time units (%.0f ticks)\n", 1/freq, 1/freq/meta.Dt)
	}

	fmt.Println("\nphase portrait (centroid y vs vertical speed):")
	fmt.Print(analysis.NewPhasePortrait(samples).ToASCII(60, 16))
	return nil
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], jsonOut)
		},
	}
	cmd.Flags().StringVarP(&jsonOut, "out", "o", "-", "output file (- for stdout)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	cmd.Flags().StringVarP(&csvOut, "out", "o", "-", "output file (- for stdout)")
	return cmd
}

func exportCSV(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}

	if csvOut == "-" {
		return storage.WriteSamplesCSV(os.Stdout, samples)
	}
	f, err := os.Create(csvOut)
	if err != nil {
		return err
	}
	if err := storage.WriteSamplesCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	logger.Info("exported", "samples", len(samples), "path", csvOut)
	return f.Close()
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the final ring and the centroid trail as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	cmd.Flags().StringVarP(&svgOut, "out", "o", "blob.svg", "output file")
	return cmd
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, samples, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	outline, err := st.LoadOutline(args[0])
	if err != nil {
		return err
	}

	trail := make([]r2.Point, len(samples))
	for i, s := range samples {
		trail[i] = s.Centroid
	}

	// replay the run's color picks so the file matches what live would show
	picker := palette.NewPicker(meta.Seed)
	for _, s := range samples {
		picker.Observe(s.NewCollision, time.Unix(0, 0).Add(time.Duration(s.Time*float64(time.Second))))
	}

	svg := export.BodyToSVG(export.Scene{
		Bounds:     dynamo.Bounds{Width: meta.Width, Height: meta.Height},
		Outline:    outline.Positions(),
		Trajectory: trail,
		Fill:       picker.Color().Hex(),
	})
	if svg == "" {
		return fmt.Errorf("run %s has no box to draw", meta.ID)
	}

	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", svgOut)
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tNODES\tK\tDAMPING\tPRESSURE\tMASS\tGRAVITY")
			for _, name := range names {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.1f\t%v\n",
					name, c.Body.NodeCount, c.Body.SpringConstant, c.Body.SpringDamping,
					c.Body.Pressure, c.Body.Mass, c.Body.Gravity)
			}
			return w.Flush()
		},
	}
}
