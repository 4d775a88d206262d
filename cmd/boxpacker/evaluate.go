package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/box-packer/internal/packing"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type prismReport struct {
	Height float64 `json:"height" yaml:"height"`
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
}

type candidateReport struct {
	Orientation string      `json:"orientation" yaml:"orientation"`
	Rotated     prismReport `json:"rotated" yaml:"rotated"`
	Units       int         `json:"units" yaml:"units"`
}

type evaluationReport struct {
	Container   prismReport       `json:"container" yaml:"container"`
	Product     prismReport       `json:"product" yaml:"product"`
	Orientation string            `json:"orientation" yaml:"orientation"`
	Rotated     prismReport       `json:"rotated" yaml:"rotated"`
	Units       int               `json:"units" yaml:"units"`
	Utilization float64           `json:"utilization" yaml:"utilization"`
	Candidates  []candidateReport `json:"candidates" yaml:"candidates"`
	Requested   *candidateReport  `json:"requested,omitempty" yaml:"requested,omitempty"`
}

// runEvaluate runs one session and writes the outcome to w. A non-empty
// orientation code is reported next to the winner for comparison.
func runEvaluate(w io.Writer, container, product packing.Prism, orientation, format string) error {
	var requested *packing.Orientation
	if orientation != "" {
		o, err := packing.ParseOrientation(orientation)
		if err != nil {
			return err
		}
		requested = &o
	}

	session, err := packing.NewSession(container, product)
	if err != nil {
		return err
	}
	if _, err := session.Evaluate(); err != nil {
		return err
	}
	eval, _ := session.Evaluation()
	report := newEvaluationReport(eval)
	if requested != nil {
		for i, c := range eval.Candidates {
			if c.Orientation == *requested {
				report.Requested = &report.Candidates[i]
				break
			}
		}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case formatText, "":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newEvaluationReport(eval packing.Evaluation) evaluationReport {
	candidates := make([]candidateReport, 0, len(eval.Candidates))
	for _, c := range eval.Candidates {
		candidates = append(candidates, candidateReport{
			Orientation: c.Orientation.Code(),
			Rotated:     toPrismReport(c.Rotated),
			Units:       c.Units,
		})
	}
	return evaluationReport{
		Container:   toPrismReport(eval.Container),
		Product:     toPrismReport(eval.Product),
		Orientation: eval.Orientation.Code(),
		Rotated:     toPrismReport(eval.Rotated),
		Units:       eval.Units,
		Utilization: eval.Utilization,
		Candidates:  candidates,
	}
}

func toPrismReport(p packing.Prism) prismReport {
	return prismReport{Height: p.Height(), Width: p.Width(), Depth: p.Depth()}
}

func (p prismReport) String() string {
	return fmt.Sprintf("%g x %g x %g", p.Height, p.Width, p.Depth)
}

func writeText(w io.Writer, report evaluationReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Container (h x w x d):\t%s\n", report.Container)
	fmt.Fprintf(tw, "Product (h x w x d):\t%s\n\n", report.Product)
	fmt.Fprintln(tw, "ORIENTATION\tROTATED\tUNITS\t")
	for _, c := range report.Candidates {
		marker := ""
		if c.Orientation == report.Orientation {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Orientation, c.Rotated, c.Units, marker)
	}
	fmt.Fprintf(tw, "\nBest orientation:\t%s\n", report.Orientation)
	fmt.Fprintf(tw, "Rotated product:\t%s\n", report.Rotated)
	fmt.Fprintf(tw, "Packable units:\t%d\n", report.Units)
	fmt.Fprintf(tw, "Volume utilization:\t%.1f%%\n", report.Utilization*100)
	if r := report.Requested; r != nil {
		fmt.Fprintf(tw, "Requested %s:\t%s, %d units (%d fewer)\n", r.Orientation, r.Rotated, r.Units, report.Units-r.Units)
	}
	return tw.Flush()
}
