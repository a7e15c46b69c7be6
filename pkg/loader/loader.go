package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

// Format is a detected input format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
)

// ErrEmptyInput is returned when there is nothing to load.
var ErrEmptyInput = errors.New("empty input")

// maxNodeDepth bounds YAML alias expansion.
const maxNodeDepth = 512

var (
	// TOML section headers: [server], [[items]], ["table name"], [database.credentials].
	// JSON arrays like [1, 2, 3] do not match.
	tomlSection = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value lines (YAML uses key: value).
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// Detect guesses the format of input.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return FormatYAML
	}
	// A pretty-printed document can look like NDJSON line by line.
	if (strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[")) && gjson.Valid(input) {
		return FormatJSON
	}
	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) {
		return FormatNDJSON
	}
	if isLikelyTOML(input) {
		return FormatTOML
	}
	return FormatYAML
}

// LoadData parses input into one value per document. JSON and YAML keep object keys
// in document order; TOML tables are sorted by key.
func LoadData(input string) ([]inspector.Value, Format, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, "", ErrEmptyInput
	}
	format := Detect(input)
	var (
		docs []inspector.Value
		err  error
	)
	switch format {
	case FormatNDJSON:
		docs, err = loadNDJSON(input)
	case FormatTOML:
		docs, err = loadTOML(input)
	case FormatJSON:
		docs = []inspector.Value{inspector.FromJSON(gjson.Parse(input))}
	default:
		docs, err = loadYAML(input)
	}
	if err != nil {
		return nil, format, err
	}
	return docs, format, nil
}

// LoadValue parses input into a single value. Multi-document inputs become an array.
func LoadValue(input string) (inspector.Value, error) {
	docs, _, err := LoadData(input)
	if err != nil {
		return inspector.Value{}, err
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return inspector.Array(docs...), nil
}

// LoadReader reads r to the end and parses it with LoadValue.
func LoadReader(r io.Reader) (inspector.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return inspector.Value{}, fmt.Errorf("read input: %w", err)
	}
	return LoadValue(string(data))
}

// LoadFile reads a file and parses it with LoadValue.
func LoadFile(path string) (inspector.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inspector.Value{}, err
	}
	v, err := LoadValue(string(data))
	if err != nil {
		return inspector.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// loadNDJSON parses one JSON document per line. Lines that are not JSON are kept as
// plain strings.
func loadNDJSON(input string) ([]inspector.Value, error) {
	lines := strings.Split(input, "\n")
	out := make([]inspector.Value, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			out = append(out, inspector.String(line))
			continue
		}
		out = append(out, inspector.FromJSON(gjson.Parse(line)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return out, nil
}

// isLikelyNDJSON requires several lines, most of which start like a JSON object or
// array. YAML lists ("- name") stay YAML.
func isLikelyNDJSON(lines []string) bool {
	jsonCount, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

// isLikelyTOML reports TOML when there is a section header or most lines are
// key = value pairs.
func isLikelyTOML(input string) bool {
	sections, pairs, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			pairs++
		}
	}
	return sections > 0 || (nonEmpty > 0 && pairs > nonEmpty/2)
}

func loadTOML(input string) ([]inspector.Value, error) {
	var data map[string]interface{}
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []inspector.Value{inspector.FromInterface(data)}, nil
}

// loadYAML decodes every document through yaml.Node so mapping order survives.
func loadYAML(input string) ([]inspector.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var out []inspector.Value
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		v, err := fromYAMLNode(&doc, 0)
		if err != nil {
			return nil, err
		}
		if v.Kind() == inspector.KindNull && len(out) > 0 {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no documents found in YAML input")
	}
	return out, nil
}

func fromYAMLNode(n *yaml.Node, depth int) (inspector.Value, error) {
	if depth > maxNodeDepth {
		return inspector.Value{}, fmt.Errorf("invalid YAML: nesting deeper than %d", maxNodeDepth)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return inspector.Null(), nil
		}
		return fromYAMLNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1)
	case yaml.MappingNode:
		fields := make([]inspector.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAMLNode(n.Content[i+1], depth+1)
			if err != nil {
				return inspector.Value{}, err
			}
			fields = append(fields, inspector.Field{Key: n.Content[i].Value, Value: v})
		}
		return inspector.Object(fields...), nil
	case yaml.SequenceNode:
		items := make([]inspector.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c, depth+1)
			if err != nil {
				return inspector.Value{}, err
			}
			items = append(items, v)
		}
		return inspector.Array(items...), nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return inspector.Null(), nil
		case "!!bool", "!!int", "!!float":
			var x interface{}
			if err := n.Decode(&x); err != nil {
				return inspector.Value{}, fmt.Errorf("invalid YAML at line %d: %w", n.Line, err)
			}
			return inspector.FromInterface(x), nil
		default:
			return inspector.String(n.Value), nil
		}
	default:
		return inspector.Null(), nil
	}
}
