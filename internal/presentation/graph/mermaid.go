// Package graph renders wizard configurations as Mermaid diagrams for
// documentation and review.
package graph

import (
	"fmt"
	"strings"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// Overlay contains session state to visualize on the diagram.
type Overlay struct {
	CompletedSteps []string
	CurrentStep    string
}

// GenerateMermaid produces a Mermaid flowchart of the wizard's step
// sequence. Shapes carry meaning:
// - First step: ((Circle))
// - Optional step: [/Parallelogram/]
// - Default: [Rectangle]
// Backward navigation is implied and not drawn; forward skip edges appear
// when the config allows skipping.
func GenerateMermaid(config *domain.Config, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, step := range config.Steps {
		safeID := sanitizeMermaidID(step.ID)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case step.Optional:
			opener, closer = "[/", "/]"
		}

		label := step.Title
		if label == "" {
			label = step.ID
		}
		if step.Schema != nil {
			if req := len(step.Schema.RequiredFields()); req > 0 {
				label = fmt.Sprintf("%s <br/> %d required", label, req)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if i < len(config.Steps)-1 {
			next := sanitizeMermaidID(config.Steps[i+1].ID)
			sb.WriteString(fmt.Sprintf("    %s -- \"valid\" --> %s\n", safeID, next))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -- \"complete\" --> published((\"published\"))\n", safeID))
		}

		// Skip edges jump over the immediate successor.
		if config.AllowSkipSteps && i < len(config.Steps)-2 {
			target := sanitizeMermaidID(config.Steps[i+2].ID)
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", safeID, target))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef completed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.CompletedSteps {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s completed;\n", safeID))
			}
		}

		if overlay.CurrentStep != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentStep)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
