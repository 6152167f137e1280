package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// mergeFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// UnmarshalYAML accepts the timeout as a duration string ("300s", "5m"), a
// bare number of seconds, or a timeout_seconds integer.
func (c *LLMConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("llm: expected a mapping at line %d", node.Line)
	}

	rest := *node
	rest.Content = nil
	var timeout, timeoutSeconds *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "timeout":
			timeout = val
		case "timeout_seconds":
			timeoutSeconds = val
		default:
			rest.Content = append(rest.Content, key, val)
		}
	}

	type plain LLMConfig
	if err := rest.Decode((*plain)(c)); err != nil {
		return err
	}
	if timeout != nil {
		d, err := parseTimeout(timeout)
		if err != nil {
			return err
		}
		c.Timeout = d
	}
	if timeoutSeconds != nil {
		var secs int
		if err := timeoutSeconds.Decode(&secs); err != nil {
			return fmt.Errorf("llm.timeout_seconds: %w", err)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}

func parseTimeout(node *yaml.Node) (time.Duration, error) {
	if node.ShortTag() == "!!int" {
		var secs int
		if err := node.Decode(&secs); err != nil {
			return 0, fmt.Errorf("llm.timeout: %w", err)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(node.Value))
	if err != nil {
		return 0, fmt.Errorf("llm.timeout %q: want a duration such as 300s or a number of seconds", node.Value)
	}
	return d, nil
}
