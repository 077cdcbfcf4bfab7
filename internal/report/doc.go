// Package report renders run summaries and run comparisons.
//
// Three formats are available:
//   - SimpleWriter: plain text with tables for the terminal
//   - MarkdownWriter: GitHub-flavored markdown with a mermaid chart
//   - JSONWriter: structured JSON for tool integration
//
// Writers implement the Writer interface, so they can be used
// interchangeably and combined with MultiWriter.
package report
