package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const fileHeader = `hotsearch configuration

Priority (highest first): command-line flags, environment variables
(HOTSEARCH_<SECTION>_<KEY> and the legacy names such as TIANAPI_KEY),
this file, built-in defaults.
Keep API keys in the environment rather than here.`

// WriteDefault writes the default configuration as YAML, with each key
// preceded by its description.
func WriteDefault(w io.Writer) error {
	var doc yaml.Node
	if err := doc.Encode(Default()); err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	annotate(&doc, "")
	doc.HeadComment = fileHeader

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return enc.Close()
}

// annotate attaches option descriptions as head comments on mapping keys.
func annotate(n *yaml.Node, prefix string) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		full := key.Value
		if prefix != "" {
			full = prefix + "." + key.Value
		}
		if o, ok := Lookup(full); ok {
			key.HeadComment = o.Description
		}
		annotate(value, full)
	}
}
