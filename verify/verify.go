// Package verify provides checks for instruction-word programs before and
// while they run.
//
// It has two complementary stages:
//
// 1. Static Lint (lint.go): decodes every word without running it
//   - DECODE checks: words that belong to no instruction family
//   - CONTROL checks: branch and jump targets outside the program, branches
//     that target themselves
//   - REGISTER checks: results written to $zero, division by $zero
//   - HALT checks: programs that never call the exit syscall
//
// 2. Trial Run (report.go): executes the program on a core.Emulator with a
// step limit, capturing syscall output instead of printing it.
//
// # Usage Example
//
//	program, _ := core.LoadProgramFile("sum.hex", core.DefaultCapacity)
//
//	issues := verify.RunLint(program)
//	for _, issue := range issues {
//	    log.Printf("[%s] pc=%d: %s", issue.Type, issue.PC, issue.Message)
//	}
//
//	report := verify.GenerateReport(program, 10000)
//	report.WriteReport(os.Stdout)
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueDecode   IssueType = "DECODE"   // Word belongs to no family
	IssueControl  IssueType = "CONTROL"  // Suspicious control flow target
	IssueRegister IssueType = "REGISTER" // Suspicious register use
	IssueHalt     IssueType = "HALT"     // Missing explicit exit
)

// Severity ranks how likely an issue is to break the run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue represents a single lint issue
type Issue struct {
	Type     IssueType
	Severity Severity
	PC       int // Instruction index, -1 for whole-program issues
	Word     uint32
	Message  string
	Details  map[string]interface{}
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}

	return false
}
