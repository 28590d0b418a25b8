package duckcli

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// CompletionEntry is a single suggestion surfaced to an editor's
// autocomplete, keyed in the index by its normalized uppercase label.
type CompletionEntry struct {
	Label         string `json:"label"`
	Kind          string `json:"kind"` // keyword or function
	Detail        string `json:"detail,omitempty"`
	FilterText    string `json:"filter_text,omitempty"`
	SortText      string `json:"sort_text,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// Introspection queries, ordered deterministically by name. The rich
// function query carries parameter and tag columns; the legacy form is the
// fallback for engine builds that lack them.
const (
	keywordQuery        = `SELECT keyword_name, keyword_category FROM duckdb_keywords() ORDER BY keyword_name`
	functionQuery       = `SELECT function_name, function_type, return_type, parameters, parameter_types, description, tags FROM duckdb_functions() ORDER BY function_name`
	legacyFunctionQuery = `SELECT DISTINCT function_name, function_type FROM duckdb_functions() ORDER BY function_name`
)

// validLabel is the identifier shape a label must have after uppercasing.
// Rows that do not match are dropped silently (operators, quoted oddities).
var validLabel = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// statementKeywords lead a statement and sort before everything else so
// completion UIs surface statement starters first.
var statementKeywords = map[string]struct{}{
	"SELECT": {}, "INSERT": {}, "UPDATE": {}, "DELETE": {}, "CREATE": {},
	"DROP": {}, "ALTER": {}, "WITH": {}, "SHOW": {}, "DESCRIBE": {},
	"EXPLAIN": {}, "PRAGMA": {}, "CALL": {}, "SET": {}, "BEGIN": {},
	"COMMIT": {}, "ROLLBACK": {}, "ATTACH": {}, "DETACH": {}, "COPY": {},
	"VACUUM": {}, "SUMMARIZE": {}, "USE": {}, "EXPORT": {}, "IMPORT": {},
}

func sortPriority(label, kind string) string {
	if kind == "function" {
		return "2_" + label
	}
	if _, ok := statementKeywords[label]; ok {
		return "0_" + label
	}
	return "1_" + label
}

// Completions returns the label-to-entry completion index for this
// connection. The index is synthesized at most once per driver instance:
// the first call issues the introspection queries (concurrent first calls
// share one computation) and every later call returns the cached mapping.
// Introspection failures degrade the index but never surface as errors;
// the built-in keyword table is the unconditional minimum result.
func (d *Driver) Completions(ctx context.Context) map[string]CompletionEntry {
	d.completionsMu.Lock()
	if d.completions != nil {
		index := d.completions
		d.completionsMu.Unlock()
		return index
	}
	d.completionsMu.Unlock()

	v, _, _ := d.completionsOnce.Do("completions", func() (any, error) {
		// Re-check under the lock: a caller that saw a nil index may reach
		// Do only after an earlier build finished and singleflight forgot
		// the key. Building again would re-issue the introspection queries.
		d.completionsMu.Lock()
		if d.completions != nil {
			index := d.completions
			d.completionsMu.Unlock()
			return index, nil
		}
		d.completionsMu.Unlock()

		index := d.buildCompletions(ctx)

		d.completionsMu.Lock()
		d.completions = index
		d.completionsMu.Unlock()
		return index, nil
	})
	return v.(map[string]CompletionEntry)
}

func (d *Driver) buildCompletions(ctx context.Context) map[string]CompletionEntry {
	index := make(map[string]CompletionEntry)

	keywords := d.loadKeywords(ctx)
	for _, kw := range keywords {
		label := strings.ToUpper(kw.name)
		if !validLabel.MatchString(label) {
			continue
		}
		if _, exists := index[label]; exists {
			continue
		}
		detail := kw.category
		if detail == "" {
			detail = "keyword"
		}
		index[label] = CompletionEntry{
			Label:      label,
			Kind:       "keyword",
			Detail:     detail,
			FilterText: label,
			SortText:   sortPriority(label, "keyword"),
		}
	}

	for label, fn := range d.loadFunctions(ctx) {
		doc := fn.render()
		if existing, ok := index[label]; ok {
			// A function sharing a keyword's name enriches the keyword
			// entry instead of replacing it.
			if existing.Documentation != "" {
				existing.Documentation += "\n\n"
			}
			existing.Documentation += doc
			index[label] = existing
			continue
		}
		index[label] = CompletionEntry{
			Label:         label,
			Kind:          "function",
			Detail:        fn.detail(),
			FilterText:    label,
			SortText:      sortPriority(label, "function"),
			Documentation: doc,
		}
	}

	if len(index) == 0 {
		// Nothing at all could be loaded; fall back to the static table.
		for _, kw := range builtinKeywords {
			label := strings.ToUpper(kw.name)
			index[label] = CompletionEntry{
				Label:      label,
				Kind:       "keyword",
				Detail:     kw.category,
				FilterText: label,
				SortText:   sortPriority(label, "keyword"),
			}
		}
	}

	d.logger.Debug("completion index built", "entries", len(index))
	return index
}

// keywordRow is the canonical keyword record after adapting the loosely
// typed introspection output.
type keywordRow struct {
	name     string
	category string
}

func (d *Driver) loadKeywords(ctx context.Context) []keywordRow {
	rows, err := d.queryRows(ctx, keywordQuery)
	if err != nil {
		d.logger.Warn("keyword introspection failed, using built-in table", "error", err)
		return builtinKeywords
	}

	keywords := make([]keywordRow, 0, len(rows))
	for _, r := range rows {
		if kw, ok := keywordFromRow(r); ok {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func keywordFromRow(r Row) (keywordRow, bool) {
	name := stringField(r, "keyword_name", "keyword", "name")
	if name == "" {
		return keywordRow{}, false
	}
	return keywordRow{
		name:     name,
		category: stringField(r, "keyword_category", "category"),
	}, true
}

// functionInfo accumulates every source row sharing one normalized label.
// Functions are routinely overloaded, so categories, return types,
// signatures and tags are growing sets; merging never drops information
// recorded from an earlier row.
type functionInfo struct {
	name        string
	categories  []string
	returnTypes []string
	signatures  []string
	tags        []string
	description string
}

func (f *functionInfo) absorb(row functionRow) {
	f.categories = appendUnique(f.categories, row.category)
	f.returnTypes = appendUnique(f.returnTypes, row.returnType)
	if sig := renderSignature(row.parameters, row.parameterTypes); sig != "" {
		f.signatures = appendUnique(f.signatures, sig)
	}
	for _, tag := range row.tags {
		f.tags = appendUnique(f.tags, tag)
	}
	if f.description == "" {
		f.description = row.description
	}
}

func (f *functionInfo) detail() string {
	if len(f.categories) == 0 {
		return "function"
	}
	return strings.Join(f.categories, "/") + " function"
}

func (f *functionInfo) render() string {
	var b strings.Builder
	b.WriteString(f.name)
	if len(f.signatures) > 0 {
		b.WriteString("\n")
		for _, sig := range f.signatures {
			fmt.Fprintf(&b, "  %s%s\n", f.name, sig)
		}
	} else {
		b.WriteString("\n")
	}
	if len(f.returnTypes) > 0 {
		fmt.Fprintf(&b, "Returns: %s\n", strings.Join(f.returnTypes, ", "))
	}
	if f.description != "" {
		b.WriteString(f.description)
		b.WriteString("\n")
	}
	if len(f.tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s", strings.Join(f.tags, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Driver) loadFunctions(ctx context.Context) map[string]*functionInfo {
	rows, err := d.queryRows(ctx, functionQuery)
	if err != nil {
		d.logger.Warn("function introspection failed, trying legacy query", "error", err)
		rows, err = d.queryRows(ctx, legacyFunctionQuery)
	}
	if err != nil {
		d.logger.Warn("legacy function introspection failed, completions will lack functions", "error", err)
		return nil
	}

	grouped := make(map[string]*functionInfo)
	for _, r := range rows {
		row, ok := functionFromRow(r)
		if !ok {
			continue
		}
		label := strings.ToUpper(row.name)
		if !validLabel.MatchString(label) {
			continue
		}
		info := grouped[label]
		if info == nil {
			info = &functionInfo{name: label}
			grouped[label] = info
		}
		info.absorb(row)
	}
	return grouped
}

// functionRow is the canonical function record. The engine's introspection
// output is loosely typed with aliased field names across versions; this
// adapter is the only place that raw shape is handled.
type functionRow struct {
	name           string
	category       string
	returnType     string
	description    string
	parameters     []string
	parameterTypes []string
	tags           []string
}

func functionFromRow(r Row) (functionRow, bool) {
	name := stringField(r, "function_name", "name")
	if name == "" {
		return functionRow{}, false
	}
	return functionRow{
		name:           name,
		category:       stringField(r, "function_type", "type"),
		returnType:     stringField(r, "return_type"),
		description:    stringField(r, "description", "comment"),
		parameters:     stringList(r["parameters"]),
		parameterTypes: stringList(r["parameter_types"]),
		tags:           flattenTags(r["tags"]),
	}, true
}

// renderSignature zips parameter names and types into "(name: type, ...)".
// A parameter missing its counterpart renders as the bare name or type.
func renderSignature(names, types []string) string {
	n := len(names)
	if len(types) > n {
		n = len(types)
	}
	if n == 0 {
		return "()"
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var name, typ string
		if i < len(names) {
			name = names[i]
		}
		if i < len(types) {
			typ = types[i]
		}
		switch {
		case name != "" && typ != "":
			parts = append(parts, name+": "+typ)
		case name != "":
			parts = append(parts, name)
		case typ != "":
			parts = append(parts, typ)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// flattenTags renders the engine's tag column into flat strings. Tags
// arrive as a delimited list, a key/value map rendered "key=value", or a
// single scalar.
func flattenTags(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		tags := make([]string, 0, len(t))
		for k, val := range t {
			tags = append(tags, fmt.Sprintf("%s=%v", k, val))
		}
		sort.Strings(tags)
		return tags
	case []any:
		var tags []string
		for _, item := range t {
			if s := strings.TrimSpace(fmt.Sprintf("%v", item)); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	case string:
		if t == "" {
			return nil
		}
		var tags []string
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return []string{fmt.Sprintf("%v", t)}
	}
}

// stringField returns the first non-empty string value among the aliased
// keys for a field.
func stringField(r Row, keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
