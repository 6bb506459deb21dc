package mockup

import (
	"fmt"
	"strings"
)

// negativePrompt steers diffusion models away from photo-realistic noise.
const negativePrompt = "blurry, low quality, text, words, letters, photography, realistic, human faces, people"

// promptKind collapses payload kinds onto the prompt template categories.
func promptKind(roleKind string) string {
	switch roleKind {
	case "design", "figma", "wireframe", "website", "mobile", "desktop":
		return "design"
	case "planning", "pm":
		return "pm"
	case "architecture", "frontend", "backend", "dev":
		return "dev"
	case "business":
		return "business"
	case "product":
		return "product"
	default:
		if roleKind == "" {
			return "design"
		}
		return roleKind
	}
}

// PromptFor builds the provider-facing prompt for a payload. This is the one
// piece of generation policy the core owns across the chain boundary.
func PromptFor(roleKind, idea, contextText string, details []string) string {
	kind := promptKind(roleKind)
	base := fmt.Sprintf("Professional %s diagram for %q. ", kind, idea)
	highlights := topDetails(details, 3)

	switch kind {
	case "design":
		return base + fmt.Sprintf("Clean mobile app wireframe, iOS style, minimal black and white sketch, figma style mockup, single screen showing: %s. Simple UI elements, no text, just wireframe boxes and icons.", highlights)
	case "pm":
		return base + fmt.Sprintf("Project management timeline diagram, clean gantt chart style, showing phases: %s. Business diagram, black and white, professional chart with boxes and arrows.", highlights)
	case "dev":
		return base + fmt.Sprintf("Technical architecture diagram showing: %s. System diagram with server boxes, database cylinders, API connections, mobile device. Clean technical illustration.", highlights)
	case "business":
		return base + fmt.Sprintf("Business model diagram showing: %s. Clean business chart with revenue streams, cost structure, graphs. Professional black and white illustration.", highlights)
	case "product":
		return base + fmt.Sprintf("User journey map showing: %s. Clean flowchart with user personas, stages, touchpoints. Minimal product diagram with arrows and boxes.", highlights)
	default:
		return base + "Professional diagram illustration. Clean, minimal, black and white technical drawing."
	}
}

// topDetails joins the first n details, falling back to a generic hint when
// the payload carried nothing usable.
func topDetails(details []string, n int) string {
	if len(details) > n {
		details = details[:n]
	}
	if len(details) == 0 {
		return "key concepts"
	}
	return strings.Join(details, ", ")
}
