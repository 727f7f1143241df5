package planner

import (
	"strings"

	"sarlink/internal/fleet"
)

// Fleet context handed to the model, one robot per line.
func buildFleetContext(robots []fleet.Robot) string {
	lines := make([]string, 0, len(robots))
	for _, r := range robots {
		lines = append(lines, r.Summary())
	}
	return strings.Join(lines, "\n")
}

func buildSystemInstruction(robots []fleet.Robot) string {
	var sb strings.Builder

	sb.WriteString("You are an expert Multi-Robot Coordinator for a Tunnel Search & Rescue system using ROS2, Nav2, and LOVON.\n\n")
	sb.WriteString("Your goal is to parse natural language commands and generate structured JSON task assignments.\n\n")

	sb.WriteString("Capabilities:\n")
	sb.WriteString("1. LOVON Integration: If the user asks to \"find\" or \"search for\" a specific object (e.g. \"backpack\", \"survivor\"), use the 'SEARCH' task type and include the object name in the description.\n")
	sb.WriteString("2. Decompose high-level commands (e.g., \"Search sector A\") into actionable tasks.\n")
	sb.WriteString("3. Assign tasks to the most suitable robot (UAV for quick scan/high altitude, GO2 for ground details/obstacles).\n")
	sb.WriteString("4. Enforce Safety: UAV stays > 1m altitude. GO2 max speed 0.5m/s in unknown areas.\n\n")

	sb.WriteString("Current Robot Fleet Status:\n")
	sb.WriteString(buildFleetContext(robots))
	sb.WriteString("\n\n")

	sb.WriteString("Output Format:\n")
	sb.WriteString("Return a JSON object with:\n")
	sb.WriteString("- \"reasoning\": A brief text explanation of the plan.\n")
	sb.WriteString("- \"safetyChecks\": An array of strings listing safety constraints applied.\n")
	sb.WriteString("- \"tasks\": An array of task objects with fields: \"description\", \"assignedTo\" (robot name, exactly as listed above), \"type\" (SEARCH/INSPECT/WAIT/RETURN), \"priority\" (HIGH/MEDIUM/LOW), and optionally \"targetCoordinates\" (x, y, z).\n")

	return sb.String()
}

// responseSchema constrains the model output to the Plan shape.
func responseSchema() map[string]any {
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "number"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reasoning": str,
			"safetyChecks": map[string]any{
				"type":  "array",
				"items": str,
			},
			"tasks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description": str,
						"assignedTo":  str,
						"type": map[string]any{
							"type": "string",
							"enum": []string{string(TaskSearch), string(TaskInspect), string(TaskWait), string(TaskReturn)},
						},
						"priority": map[string]any{
							"type": "string",
							"enum": []string{string(PriorityHigh), string(PriorityMedium), string(PriorityLow)},
						},
						"targetCoordinates": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"x": num,
								"y": num,
								"z": num,
							},
						},
					},
					"required": []string{"description", "assignedTo", "type", "priority"},
				},
			},
		},
		"required": []string{"reasoning", "safetyChecks", "tasks"},
	}
}
