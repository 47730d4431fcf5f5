// internal/service/template_service.go
package service

import (
	"strings"
)

// RenderTemplate replaces every {key} in template with its value in one
// pass, so values that themselves contain {key} text are left alone.
func RenderTemplate(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
