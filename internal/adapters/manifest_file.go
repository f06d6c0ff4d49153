package adapters

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

const defaultManifestIndent = "  "

// ManifestFileAdapter reads and writes package.json files. Top-level member
// order and dependency order survive a load/save cycle; only dependency
// group values are rewritten from the in-memory manifest.
type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func (ManifestFileAdapter) Load(path string) (types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Manifest{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("manifest not found").
				WithCause(err)
		}
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read manifest").
			WithCause(err)
	}
	return parseManifest(path, data)
}

func parseManifest(path string, data []byte) (types.Manifest, error) {
	var root orderedObject
	if err := json.Unmarshal(data, &root); err != nil {
		return types.Manifest{}, invalidManifest(err)
	}
	if root.Members == nil && !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return types.Manifest{}, invalidManifest(errors.New("manifest root is not an object"))
	}
	manifest := types.Manifest{
		Path:            path,
		Indent:          detectIndent(data),
		TrailingNewline: bytes.HasSuffix(data, []byte("\n")),
	}
	groups := map[string]types.DependencyGroup{}
	for _, member := range root.Members {
		manifest.Fields = append(manifest.Fields, types.ManifestField{Key: member.Key, Raw: member.Value})
		if !slices.Contains(types.DependencyGroupNames, member.Key) {
			continue
		}
		group, err := parseDependencyGroup(member.Key, member.Value)
		if err != nil {
			return types.Manifest{}, err
		}
		groups[member.Key] = group
	}
	for _, name := range types.DependencyGroupNames {
		if group, ok := groups[name]; ok {
			manifest.Groups = append(manifest.Groups, group)
		}
	}
	return manifest, nil
}

func parseDependencyGroup(name string, raw json.RawMessage) (types.DependencyGroup, error) {
	var object orderedObject
	if err := json.Unmarshal(raw, &object); err != nil {
		return types.DependencyGroup{}, invalidManifest(err)
	}
	group := types.DependencyGroup{Name: name}
	for _, member := range object.Members {
		var declared string
		if err := json.Unmarshal(member.Value, &declared); err != nil {
			return types.DependencyGroup{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("manifest is not valid: " + name + "." + member.Key + " is not a string").
				WithCause(err)
		}
		group.Entries = append(group.Entries, types.ManifestEntry{Name: member.Key, Declared: declared})
	}
	return group, nil
}

func invalidManifest(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("manifest is not valid JSON").
		WithCause(err)
}

// detectIndent returns the leading whitespace of the first indented line.
func detectIndent(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || len(trimmed) == len(line) {
			continue
		}
		return line[:len(line)-len(trimmed)]
	}
	return defaultManifestIndent
}

func (ManifestFileAdapter) Save(manifest types.Manifest) error {
	if strings.TrimSpace(manifest.Path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is empty")
	}
	data, err := renderManifest(manifest)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0644)
	if info, err := os.Stat(manifest.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(manifest.Path, data, mode); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write manifest").
			WithCause(err)
	}
	return nil
}

func renderManifest(manifest types.Manifest) ([]byte, error) {
	indent := manifest.Indent
	if indent == "" {
		indent = defaultManifestIndent
	}
	var buf bytes.Buffer
	if len(manifest.Fields) == 0 {
		buf.WriteString("{}")
	} else {
		buf.WriteString("{\n")
		for i, field := range manifest.Fields {
			buf.WriteString(indent)
			buf.WriteString(encodeJSONString(field.Key))
			buf.WriteString(": ")
			if group := manifest.Group(field.Key); group != nil {
				renderGroup(&buf, *group, indent)
			} else if err := json.Indent(&buf, field.Raw, indent, indent); err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("failed to encode manifest field " + field.Key).
					WithCause(err)
			}
			if i < len(manifest.Fields)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString("}")
	}
	if manifest.TrailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func renderGroup(buf *bytes.Buffer, group types.DependencyGroup, indent string) {
	if len(group.Entries) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	for i, entry := range group.Entries {
		buf.WriteString(indent)
		buf.WriteString(indent)
		buf.WriteString(encodeJSONString(entry.Name))
		buf.WriteString(": ")
		buf.WriteString(encodeJSONString(entry.Declared))
		if i < len(group.Entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent)
	buf.WriteString("}")
}

func encodeJSONString(value string) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(value)
	return strings.TrimSuffix(buf.String(), "\n")
}

var _ ports.ManifestPort = ManifestFileAdapter{}
