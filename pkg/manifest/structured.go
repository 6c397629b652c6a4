package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// tomlManifest accepts a plain packages list or a pyproject layout. Pointers
// tell a declared empty list apart from a missing key.
type tomlManifest struct {
	Packages *[]string `toml:"packages"`
	Project  struct {
		Dependencies         *[]string           `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// testExtras are the pyproject optional-dependency groups treated as test deps
var testExtras = []string{"test", "tests"}

func parseTOML(data []byte) ([]string, error) {
	var doc tomlManifest
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Packages != nil {
		return *doc.Packages, nil
	}

	declared := doc.Project.Dependencies != nil
	reqs := []string{}
	if declared {
		reqs = append(reqs, *doc.Project.Dependencies...)
	}
	for _, extra := range testExtras {
		if deps, ok := doc.Project.OptionalDependencies[extra]; ok {
			declared = true
			reqs = append(reqs, deps...)
		}
	}
	if !declared {
		return nil, fmt.Errorf("no packages, project.dependencies or test extras found")
	}
	return reqs, nil
}

// parseYAML decodes into nodes so scalars keep their source text: an
// unquoted 4.10 stays "4.10" instead of becoming the float 4.1.
func parseYAML(data []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	doc, err := fromNode(&root)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// fromNode converts a YAML node tree to maps, slices and scalar strings
func fromNode(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	default:
		return nil, nil
	}
}

// parseJSON accepts JSON with comments and trailing commas. Numbers are kept
// as written.
func parseJSON(data []byte) ([]string, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// fromDocument normalizes a decoded YAML or JSON document: either a bare
// list, or a map with a "packages" list. List items are "spec" strings or
// {name, version} objects.
func fromDocument(doc interface{}) ([]string, error) {
	var items []interface{}
	switch v := doc.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		list, ok := v["packages"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a %q list", "packages")
		}
		items = list
	default:
		return nil, fmt.Errorf("expected a list or a mapping with packages, got %T", doc)
	}

	reqs := make([]string, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			reqs = append(reqs, strings.TrimSpace(v))
		case map[string]interface{}:
			name, _ := v["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("packages[%d] has no name", i)
			}
			version, err := versionOf(v["version"])
			if err != nil {
				return nil, fmt.Errorf("packages[%d] (%s): %w", i, name, err)
			}
			reqs = append(reqs, pin(name, version))
		default:
			return nil, fmt.Errorf("packages[%d] has unsupported type %T", i, item)
		}
	}
	return reqs, nil
}

// parseXML reads NuGet-style package lists:
//
//	<packages>
//	  <package id="django" version="4.2" />
//	</packages>
func parseXML(data []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil || root.Tag != "packages" {
		return nil, fmt.Errorf("expected a <packages> root element")
	}

	var reqs []string
	for i, el := range root.SelectElements("package") {
		id := el.SelectAttrValue("id", "")
		if id == "" {
			id = el.SelectAttrValue("name", "")
		}
		if id == "" {
			return nil, fmt.Errorf("package element %d has no id", i)
		}
		reqs = append(reqs, pin(id, el.SelectAttrValue("version", "")))
	}
	return reqs, nil
}

// pin joins a name and version in installer syntax. Versions that already
// carry an operator are appended as-is.
func pin(name, version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return name
	}
	if strings.ContainsAny(version[:1], "=<>!~") {
		return name + version
	}
	return name + "==" + version
}

// versionOf accepts a version written as a string or, in JSON, a number
// kept in its literal form
func versionOf(v interface{}) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("version must be a string, got %T", v)
	}
}
