// Package tools implements the MCP tool handlers for the ethics
// submission workflow.
//
// Each tool is a struct that receives dependencies via its constructor
// (DIP) and exposes a Definition for registration plus a Handle
// compatible with mcp-go's CallToolRequest signature.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on interfaces (session manager, document store), not concretions
// - OCP: new tools are added without modifying existing ones
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/research"
	"github.com/Jgam2/EthicsPoC/internal/session"
)

// Sessions is the slice of the session manager the tools use.
// *session.Manager implements it.
type Sessions interface {
	Start(rc research.Context) (*session.Submission, error)
	Current() (*session.Submission, error)
	Discard() error
}

// DocumentStore is the slice of the document store the attach/clear
// tools use. *docstore.Store implements it.
type DocumentStore interface {
	Put(name string, content []byte) (string, error)
	Delete(handle string) error
}

// currentSubmission loads the active submission, converting the
// no-active-submission case into a tool-level error result.
func currentSubmission(s Sessions) (*session.Submission, *mcp.CallToolResult) {
	sub, err := s.Current()
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return sub, nil
}

// verdictLine renders a stored verdict as a one-line summary for tool
// responses.
func verdictLine(v *analysis.Verdict) string {
	if v == nil {
		return "not analyzed"
	}
	if v.Status == analysis.StatusUnanalyzed {
		return fmt.Sprintf("%s — %s", v.Status, strings.Join(v.MissingElements, "; "))
	}
	return fmt.Sprintf("%s (score %d)", v.Status, v.Score)
}
