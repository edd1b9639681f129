package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// Manager loads prompt templates from the embedded YAML files.
type Manager struct {
	prompts map[string]string
}

type promptTemplate struct {
	BasePrompt string `yaml:"base_prompt"`
	UserPrompt string `yaml:"user_prompt"`
}

func NewManager() (*Manager, error) {
	m := &Manager{prompts: make(map[string]string)}
	if err := m.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return m, nil
}

// BuildPrompt fills the named template with the given placeholder values.
// Placeholders use the {{.Name}} form and are replaced literally.
func (m *Manager) BuildPrompt(name string, data map[string]string) (string, error) {
	prompt, exists := m.prompts[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}
	for key, value := range data {
		prompt = strings.ReplaceAll(prompt, "{{."+key+"}}", value)
	}
	return prompt, nil
}

func (m *Manager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl promptTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		var full strings.Builder
		if tmpl.BasePrompt != "" {
			full.WriteString(tmpl.BasePrompt)
			full.WriteString("\n\n")
		}
		full.WriteString(tmpl.UserPrompt)

		m.prompts[strings.TrimSuffix(entry.Name(), ".yaml")] = full.String()
	}
	return nil
}
