package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/weft/pkg/domain"
)

// GenerateTrail produces a Mermaid flowchart of the nodes a run executed, in the order they first
// ran. Consecutive records of the same node (retries) collapse into one vertex. Edges carry the
// branch handle chosen by the source node, when it reported one. Each vertex is styled by the
// status of its last recorded attempt.
//
// Shapes:
//   - start/end: ((Circle))
//   - tool: [[Subroutine]]
//   - if-else/question-classifier: {Rhombus}
//   - default: [Rectangle]
func GenerateTrail(history []domain.NodeResultRecord) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[string]bool)
	final := make(map[string]domain.NodeExecutionStatus)
	var order []string

	prev := -1
	for i, rec := range history {
		id := sanitizeMermaidID(rec.Node.ID)
		final[id] = rec.Result.Status
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
			opener, closer := shape(rec.Node.Type)
			label := rec.Node.ID
			if rec.Node.Title != "" {
				label = rec.Node.Title
			}
			fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, strings.ReplaceAll(label, "\"", "'"), closer)
		}

		if prev >= 0 && history[prev].Node.ID != rec.Node.ID {
			from := sanitizeMermaidID(history[prev].Node.ID)
			arrow := "-->"
			if handle := history[prev].Result.EdgeSourceHandle; handle != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(handle, "\"", "'"))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, id)
		}
		prev = i
	}

	if len(order) == 0 {
		return sb.String()
	}

	sb.WriteString("\n    %% Status Styles\n")
	// Black text keeps labels readable on light fills in both themes.
	sb.WriteString("    classDef succeeded fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef running fill:#fff8e1,stroke:#f9a825,stroke-width:4px,color:#000;\n")
	for _, id := range order {
		if class := statusClass(final[id]); class != "" {
			fmt.Fprintf(&sb, "    class %s %s;\n", id, class)
		}
	}

	return sb.String()
}

func shape(nodeType string) (string, string) {
	switch nodeType {
	case "start", "end":
		return "((", "))"
	case "tool":
		return "[[", "]]"
	case "if-else", "question-classifier":
		return "{", "}"
	}
	return "[", "]"
}

func statusClass(status domain.NodeExecutionStatus) string {
	switch status {
	case domain.NodeStatusSucceeded:
		return "succeeded"
	case domain.NodeStatusFailed, domain.NodeStatusException:
		return "failed"
	case domain.NodeStatusRunning, domain.NodeStatusRetry:
		return "running"
	}
	return ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
