package bolplaza

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clbanning/mxj/v2"
)

// namespacePrefixes are removed from XML bodies before parsing. The Plaza API
// mixes prefixed and unprefixed element names for the same schema.
var namespacePrefixes = strings.NewReplacer(
	"bns:1", "",
	"bns:", "",
	"ns1:", "",
)

// Node is a generic view of an XML response: element names map to either a
// string, a nested Node or, for repeated elements, a list of those.
type Node map[string]any

// ParseXML strips the known namespace prefixes from body and converts it into
// a Node rooted at the content of the document element.
func ParseXML(body []byte) (Node, error) {
	cleaned := namespacePrefixes.Replace(string(body))

	m, err := mxj.NewMapXml([]byte(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parsing xml: %w", err)
	}

	for _, root := range m {
		switch v := root.(type) {
		case map[string]any:
			return Node(v), nil
		case string:
			if v == "" {
				return Node{}, nil
			}
			return Node{"#text": v}, nil
		}
	}
	return Node{}, nil
}

// KeyOrder returns the names of the child elements found at path, in the
// order they first occur in body. Node is a map and does not keep sibling
// order; callers that need it read it from the raw document. A repeated
// element along path is entered at its first occurrence.
func KeyOrder(body []byte, path ...string) ([]string, error) {
	cleaned := namespacePrefixes.Replace(string(body))

	m, err := mxj.NewMapXmlSeq([]byte(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parsing xml: %w", err)
	}

	var cur map[string]any
	for _, root := range m {
		cur, _ = root.(map[string]any)
	}
	for _, key := range path {
		cur = firstRecord(cur[key])
		if cur == nil {
			return nil, nil
		}
	}

	type keyed struct {
		name string
		seq  int
	}
	var children []keyed
	for name, v := range cur {
		if strings.HasPrefix(name, "#") {
			continue
		}
		children = append(children, keyed{name: name, seq: seqOf(firstRecord(v))})
	}
	sort.Slice(children, func(i, j int) bool { return children[i].seq < children[j].seq })

	keys := make([]string, len(children))
	for i, c := range children {
		keys[i] = c.name
	}
	return keys, nil
}

func firstRecord(v any) map[string]any {
	switch v := v.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			rec, _ := v[0].(map[string]any)
			return rec
		}
	}
	return nil
}

func seqOf(rec map[string]any) int {
	switch n := rec["#seq"].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// Has reports whether key is present, whatever its value.
func (n Node) Has(key string) bool {
	_, ok := n[key]
	return ok
}

// Child returns the nested record stored under key, or an empty Node.
func (n Node) Child(key string) Node {
	if v, ok := n[key].(map[string]any); ok {
		return Node(v)
	}
	return Node{}
}

// Lookup returns the scalar stored under key. Nested records and lists are
// not scalars and report false.
func (n Node) Lookup(key string) (string, bool) {
	switch v := n[key].(type) {
	case string:
		return v, true
	case map[string]any:
		if text, ok := v["#text"].(string); ok {
			return text, true
		}
	}
	return "", false
}

// String returns the scalar stored under key or the empty string.
func (n Node) String(key string) string {
	s, _ := n.Lookup(key)
	return s
}

// List returns the records stored under key. A single element and a list of
// elements both come back as a slice.
func (n Node) List(key string) []Node {
	v, ok := n[key]
	if !ok {
		return nil
	}
	return repeatedOf(v).items()
}

// repeated is the wire encoding of a repeated element: the API sends a bare
// record for one occurrence and a list for several.
type repeated struct {
	one  Node
	many []Node
}

func repeatedOf(v any) repeated {
	switch v := v.(type) {
	case map[string]any:
		return repeated{one: Node(v)}
	case []any:
		many := make([]Node, 0, len(v))
		for _, e := range v {
			if rec, ok := e.(map[string]any); ok {
				many = append(many, Node(rec))
			}
		}
		return repeated{many: many}
	}
	return repeated{}
}

func (r repeated) items() []Node {
	if r.one != nil {
		return []Node{r.one}
	}
	return r.many
}
