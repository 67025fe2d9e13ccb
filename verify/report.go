package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program       core.Program
	LintIssues    []Issue
	Result        core.Result
	Output        string
	Regs          core.RegFile
	SimulationErr error
	SimulationOK  bool
}

// GenerateReport runs both lint and a trial run, returns a report
func GenerateReport(p core.Program, maxSteps uint64) *VerificationReport {
	report := &VerificationReport{Program: p}

	report.LintIssues = RunLint(p)

	var out bytes.Buffer

	emu := core.NewEmulator(
		core.WithStdout(&out),
		core.WithMaxSteps(maxSteps),
		core.WithCapacity(max(len(p.Words), 1)),
	)

	if err := emu.LoadProgram(p); err != nil {
		report.SimulationErr = err
		return report
	}

	report.Result, report.SimulationErr = emu.Run()
	report.SimulationOK = report.SimulationErr == nil
	report.Output = out.String()
	report.Regs = *emu.Regs()

	return report
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s\n", r.Program.Name)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nLoaded %d words\n", len(r.Program.Words))
	if r.Program.Truncated {
		fmt.Fprintln(w, "  (program was truncated to the instruction capacity)")
	}

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		fmt.Fprintf(w, "Found %d lint issues:\n", len(r.LintIssues))
		fmt.Fprintln(w, dash)

		for _, issue := range r.LintIssues {
			where := "program"
			if issue.PC >= 0 {
				where = fmt.Sprintf("pc=%d 0x%08x", issue.PC, issue.Word)
			}

			fmt.Fprintf(w, "  [%s %s] %s: %s\n",
				issue.Type, issue.Severity, where, issue.Message)
		}
	}

	// STAGE 2: TRIAL RUN
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: TRIAL RUN")
	fmt.Fprintln(w, separator)

	if r.SimulationOK {
		fmt.Fprintf(w, "Halted after %d steps (%s)\n", r.Result.Steps, r.Result.Reason)
	} else {
		fmt.Fprintf(w, "Run failed: %v\n", r.SimulationErr)
	}

	if r.Output != "" {
		fmt.Fprintf(w, "Output: %q\n", r.Output)
	}

	core.WriteRegisters(w, &r.Regs, isa.NumericNames)

	// SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected\n", len(r.LintIssues))

	simStatus := "SUCCESS"
	if !r.SimulationOK {
		simStatus = "FAILED: " + r.SimulationErr.Error()
	}
	fmt.Fprintf(w, "Run Result: %s\n", simStatus)

	if r.Passed() {
		fmt.Fprintln(w, "PROGRAM PASSED ALL CHECKS")
	}

	fmt.Fprintln(w)
}

// Passed reports whether the program has no lint errors and ran cleanly.
func (r *VerificationReport) Passed() bool {
	return r.SimulationOK && !HasErrors(r.LintIssues)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
