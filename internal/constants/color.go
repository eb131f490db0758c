package constants

import "strings"

// DefaultColor is used for categories with no configured or built-in color.
const DefaultColor = "#9CA3AF"

var builtinPalette = map[string]string{
	"labor":         "#4F46E5",
	"equipment":     "#F59E0B",
	"material":      "#10B981",
	"tools":         "#8B5CF6",
	"overhead":      "#6B7280",
	"subcontractor": "#EC4899",
	"disposal":      "#EF4444",
	"miscellaneous": "#14B8A6",
}

// legacy category spellings that older tables still use.
var colorAliases = map[string]string{
	"tools": "tool",
	"tool":  "tools",
}

// ResolveColor maps a category name to a display color. The name is matched
// case-insensitively against each constant's description, either exactly or
// as "<name> color", then under its legacy alias. A matched constant's Color
// wins over its Value. With no usable match the built-in palette is used.
// The result is never empty.
func ResolveColor(category string, table Table) string {
	name := normalize(category)
	candidates := []string{name}
	if alias, ok := colorAliases[name]; ok {
		candidates = append(candidates, alias)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if color := lookupColor(candidate, table); color != "" {
			return color
		}
	}

	for _, candidate := range candidates {
		if color, ok := builtinPalette[candidate]; ok {
			return color
		}
	}
	return DefaultColor
}

func lookupColor(name string, table Table) string {
	suffixed := name + " color"
	for _, c := range table {
		if c.Type != TypeCategoryColor {
			continue
		}
		desc := normalize(c.Description)
		if desc != name && desc != suffixed {
			continue
		}
		if color := strings.TrimSpace(c.Color); color != "" {
			return color
		}
		if value := strings.TrimSpace(c.Value); value != "" {
			return value
		}
	}
	return ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
