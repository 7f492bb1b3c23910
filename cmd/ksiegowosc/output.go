package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// renderer writes command results to stdout
type renderer func(w io.Writer, v interface{}) error

func newRenderer(format string) (renderer, error) {
	switch format {
	case "json", "":
		return renderJSON, nil
	case "yaml", "yml":
		return renderYAML, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want json or yaml)", format)
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderYAML goes through the JSON encoding so field names and amounts match
// what the API exchanges, then re-emits it as block style YAML keeping key order
func renderYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
